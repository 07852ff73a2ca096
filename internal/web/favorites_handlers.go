package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/favorites"
)

// handleAddFavorite inserts a property into the user's favorites set and
// returns the user document with favorites expanded.
func (s *Server) handleAddFavorite(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mutateFavorite(w, r, role, s.favorites.Add)
	}
}

// handleRemoveFavorite removes a property from the user's favorites set and
// returns the user document with favorites expanded.
func (s *Server) handleRemoveFavorite(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mutateFavorite(w, r, role, s.favorites.Remove)
	}
}

// mutateFavorite validates the path parameters, verifies the account's role
// matches the route, then applies op. The property id must parse before any
// lookup or mutation is attempted.
func (s *Server) mutateFavorite(
	w http.ResponseWriter,
	r *http.Request,
	role account.Role,
	op func(ctx context.Context, cognitoID string, propertyID int64) (*favorites.Result, error),
) {
	cognitoID := r.PathValue("cognitoId")
	if !s.requireSubject(w, r, cognitoID) {
		return
	}

	propertyID, err := strconv.ParseInt(r.PathValue("propertyId"), 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
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

	result, err := op(r.Context(), cognitoID, propertyID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	apiJSON(w, result, http.StatusOK)
}
