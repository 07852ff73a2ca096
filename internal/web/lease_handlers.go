package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/resolver"
)

// handleListLeases returns every lease, enriched with tenant and property.
func (s *Server) handleListLeases(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, account.RoleManager) {
		return
	}

	leases, err := s.leases.List(r.Context())
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

type createLeaseRequest struct {
	PropertyID      int64   `json:"propertyId"`
	TenantCognitoID string  `json:"tenantCognitoId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	Rent            float64 `json:"rent"`
	Deposit         float64 `json:"deposit"`
}

// handleCreateLease records a new lease. Both the property and the tenant
// must exist; the date invariant is enforced by the repository at write
// time.
func (s *Server) handleCreateLease(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, account.RoleTenant, account.RoleBuyer, account.RoleManager) {
		return
	}

	var req createLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if req.PropertyID <= 0 {
		fields["propertyId"] = "required"
	}
	if strings.TrimSpace(req.TenantCognitoID) == "" {
		fields["tenantCognitoId"] = "required"
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		fields["startDate"] = "must be YYYY-MM-DD or RFC 3339"
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		fields["endDate"] = "must be YYYY-MM-DD or RFC 3339"
	}
	if len(fields) > 0 {
		apiValidationError(w, "missing or malformed fields", fields)
		return
	}

	if _, err := s.properties.GetByID(r.Context(), req.PropertyID); err != nil {
		s.storeError(w, r, err)
		return
	}
	tenant, err := s.accounts.GetByCognitoID(r.Context(), req.TenantCognitoID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if !tenant.Role.HasFavorites() {
		// Only tenants and buyers hold leases.
		apiError(w, "tenant not found", http.StatusNotFound)
		return
	}

	created, err := s.leases.Insert(r.Context(), &lease.Lease{
		PropertyID:      req.PropertyID,
		TenantCognitoID: req.TenantCognitoID,
		StartDate:       startDate,
		EndDate:         endDate,
		Rent:            req.Rent,
		Deposit:         req.Deposit,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	enriched, err := s.resolver.Leases(r.Context(), []*lease.Lease{created})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	apiJSON(w, enriched[0], http.StatusCreated)
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
