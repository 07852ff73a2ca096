package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/property"
)

type accountRequest struct {
	CognitoID   string `json:"cognitoId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// handleCreateAccount registers a new account with the role implied by the
// route. The external identity must be unique across all roles.
func (s *Server) handleCreateAccount(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		fields := make(map[string]string)
		if strings.TrimSpace(req.CognitoID) == "" {
			fields["cognitoId"] = "required"
		}
		if strings.TrimSpace(req.Name) == "" {
			fields["name"] = "required"
		}
		if strings.TrimSpace(req.Email) == "" {
			fields["email"] = "required"
		}
		if role == account.RoleManager && strings.TrimSpace(req.PhoneNumber) == "" {
			fields["phoneNumber"] = "required"
		}
		if len(fields) > 0 {
			apiValidationError(w, "missing required fields", fields)
			return
		}

		// Registration is self-service: the token's subject is the identity
		// being registered.
		if s.authEnabled && s.identitySubject(r) != req.CognitoID {
			apiError(w, "forbidden", http.StatusForbidden)
			return
		}

		created, err := s.accounts.Create(r.Context(), &account.Account{
			CognitoID:   strings.TrimSpace(req.CognitoID),
			Role:        role,
			Name:        strings.TrimSpace(req.Name),
			Email:       strings.TrimSpace(req.Email),
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		})
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		apiJSON(w, created, http.StatusCreated)
	}
}

// handleGetAccount returns an account by external identity. Tenant and
// buyer documents carry their favorites expanded into full properties.
func (s *Server) handleGetAccount(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cognitoID := r.PathValue("cognitoId")

		a, err := s.accounts.GetByCognitoID(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if a.Role != role {
			apiError(w, fmt.Sprintf("%s not found", role), http.StatusNotFound)
			return
		}

		if !role.HasFavorites() {
			apiJSON(w, a, http.StatusOK)
			return
		}

		result, err := s.favorites.Get(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		apiJSON(w, result, http.StatusOK)
	}
}

// handleUpdateAccount updates an account's contact settings.
func (s *Server) handleUpdateAccount(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cognitoID := r.PathValue("cognitoId")
		if !s.requireSubject(w, r, cognitoID) {
			return
		}

		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		fields := make(map[string]string)
		if strings.TrimSpace(req.Name) == "" {
			fields["name"] = "required"
		}
		if strings.TrimSpace(req.Email) == "" {
			fields["email"] = "required"
		}
		if len(fields) > 0 {
			apiValidationError(w, "missing required fields", fields)
			return
		}

		a, err := s.accounts.GetByCognitoID(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if a.Role != role {
			apiError(w, fmt.Sprintf("%s not found", role), http.StatusNotFound)
			return
		}

		updated, err := s.accounts.UpdateSettings(r.Context(), cognitoID,
			strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.PhoneNumber))
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		apiJSON(w, updated, http.StatusOK)
	}
}

// handleCurrentResidences resolves the user's active leases into the
// properties they currently occupy. Each property appears exactly once even
// if several active leases reference it.
func (s *Server) handleCurrentResidences(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cognitoID := r.PathValue("cognitoId")
		if !s.requireSubject(w, r, cognitoID) {
			return
		}

		a, err := s.accounts.GetByCognitoID(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if a.Role != role {
			apiError(w, fmt.Sprintf("%s not found", role), http.StatusNotFound)
			return
		}

		active, err := s.leases.ListActiveByTenant(r.Context(), cognitoID, time.Now())
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		ids := make([]int64, 0, len(active))
		seen := make(map[int64]bool, len(active))
		for _, l := range active {
			if !seen[l.PropertyID] {
				seen[l.PropertyID] = true
				ids = append(ids, l.PropertyID)
			}
		}

		found, err := s.properties.FindManyByIDs(r.Context(), ids)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		residences := make([]*property.Property, 0, len(ids))
		for _, id := range ids {
			if p, ok := found[id]; ok {
				residences = append(residences, p)
			}
		}

		enriched, err := s.resolver.Properties(r.Context(), residences)
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		apiJSON(w, enriched, http.StatusOK)
	}
}

// handleManagedProperties lists the properties managed by a landlord or
// manager account.
func (s *Server) handleManagedProperties(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cognitoID := r.PathValue("cognitoId")

		a, err := s.accounts.GetByCognitoID(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if a.Role != role {
			apiError(w, fmt.Sprintf("%s not found", role), http.StatusNotFound)
			return
		}

		props, err := s.properties.ListByManager(r.Context(), cognitoID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		enriched, err := s.resolver.Properties(r.Context(), props)
		if err != nil {
			s.storeError(w, r, err)
			return
		}

		apiJSON(w, enriched, http.StatusOK)
	}
}
