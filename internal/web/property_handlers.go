package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/property"
	"github.com/rentfolio/rentfolio/internal/resolver"
)

// handleListProperties returns the filtered property list, each record
// enriched with its location. No auth required.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	opts := property.ListOptions{}
	q := r.URL.Query()

	var parseErr string
	parseFloat := func(param string) *float64 {
		raw := q.Get(param)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parseErr = param + " must be a number"
			return nil
		}
		return &v
	}

	opts.MinPrice = parseFloat("minPrice")
	opts.MaxPrice = parseFloat("maxPrice")
	opts.MinBeds = parseFloat("minBeds")
	opts.MinBaths = parseFloat("minBaths")
	if parseErr != "" {
		apiError(w, parseErr, http.StatusBadRequest)
		return
	}
	opts.PropertyType = q.Get("propertyType")

	props, err := s.properties.List(r.Context(), opts)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	enriched, err := s.resolver.Properties(r.Context(), props)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if enriched == nil {
		enriched = make([]*resolver.Property, 0)
	}

	apiJSON(w, enriched, http.StatusOK)
}

// handleGetProperty returns a single property enriched with its location.
// No auth required.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	p, err := s.properties.GetByID(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	enriched, err := s.resolver.Property(r.Context(), p)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	apiJSON(w, enriched, http.StatusOK)
}

type createPropertyRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	PropertyType     *string  `json:"propertyType"`
	Beds             *float64 `json:"beds"`
	Baths            *float64 `json:"baths"`
	SquareFeet       *int64   `json:"squareFeet"`
	PricePerMonth    float64  `json:"pricePerMonth"`
	SecurityDeposit  *float64 `json:"securityDeposit"`
	ApplicationFee   *float64 `json:"applicationFee"`
	ManagerCognitoID string   `json:"managerCognitoId"`

	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode"`
	Coordinates string `json:"coordinates"`
}

// handleCreateProperty creates a property and its location together.
func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, account.RoleLandlord, account.RoleManager) {
		return
	}

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if req.PricePerMonth <= 0 {
		fields["pricePerMonth"] = "must be positive"
	}
	if strings.TrimSpace(req.Address) == "" {
		fields["address"] = "required"
	}
	if strings.TrimSpace(req.City) == "" {
		fields["city"] = "required"
	}
	if len(fields) > 0 {
		apiValidationError(w, "missing required fields", fields)
		return
	}

	managerID := req.ManagerCognitoID
	if s.authEnabled {
		managerID = s.identitySubject(r)
	}

	p, _, err := s.properties.CreateWithLocation(r.Context(),
		&property.Property{
			ManagerCognitoID: managerID,
			Name:             strings.TrimSpace(req.Name),
			Description:      strings.TrimSpace(req.Description),
			PropertyType:     req.PropertyType,
			Beds:             req.Beds,
			Baths:            req.Baths,
			SquareFeet:       req.SquareFeet,
			PricePerMonth:    req.PricePerMonth,
			SecurityDeposit:  req.SecurityDeposit,
			ApplicationFee:   req.ApplicationFee,
		},
		&location.Location{
			Address:     strings.TrimSpace(req.Address),
			City:        strings.TrimSpace(req.City),
			State:       strings.TrimSpace(req.State),
			Country:     strings.TrimSpace(req.Country),
			PostalCode:  strings.TrimSpace(req.PostalCode),
			Coordinates: strings.TrimSpace(req.Coordinates),
		},
	)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	enriched, err := s.resolver.Property(r.Context(), p)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	apiJSON(w, enriched, http.StatusCreated)
}

// handlePropertyLeases returns the enriched lease history for a property.
// The property must exist before any lease lookup happens.
func (s *Server) handlePropertyLeases(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, account.RoleLandlord, account.RoleManager) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	if _, err := s.properties.GetByID(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}

	leases, err := s.leases.ListByProperty(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	enriched, err := s.resolver.Leases(r.Context(), leases)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if enriched == nil {
		enriched = make([]*resolver.Lease, 0)
	}

	apiJSON(w, enriched, http.StatusOK)
}
