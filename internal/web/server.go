// Package web provides the marketplace's HTTP JSON API.
package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/auth"
	"github.com/rentfolio/rentfolio/internal/db"
	"github.com/rentfolio/rentfolio/internal/favorites"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/logging"
	"github.com/rentfolio/rentfolio/internal/property"
	"github.com/rentfolio/rentfolio/internal/resolver"
)

// Server is the marketplace API server.
type Server struct {
	accounts   *account.Repository
	properties *property.Repository
	locations  *location.Repository
	leases     *lease.Repository
	resolver   *resolver.Resolver
	favorites  *favorites.Manager

	authEnabled bool
	handler     http.Handler
}

// NewServer creates the API server over the given pool. A nil verifier
// disables authentication entirely (development only).
func NewServer(pool *db.Pool, verifier *auth.Verifier) *Server {
	accounts := account.NewRepository(pool)
	properties := property.NewRepository(pool)
	locations := location.NewRepository(pool)
	res := resolver.New(accounts, properties, locations)

	s := &Server{
		accounts:    accounts,
		properties:  properties,
		locations:   locations,
		leases:      lease.NewRepository(pool),
		resolver:    res,
		favorites:   favorites.NewManager(accounts, properties, res),
		authEnabled: verifier != nil,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	for _, role := range []account.Role{account.RoleTenant, account.RoleBuyer, account.RoleLandlord, account.RoleManager} {
		base := "/" + rolePath(role)
		mux.HandleFunc("POST "+base, s.handleCreateAccount(role))
		mux.HandleFunc("GET "+base+"/{cognitoId}", s.handleGetAccount(role))
		mux.HandleFunc("PUT "+base+"/{cognitoId}", s.handleUpdateAccount(role))
	}

	for _, role := range []account.Role{account.RoleTenant, account.RoleBuyer} {
		base := "/" + rolePath(role)
		mux.HandleFunc("POST "+base+"/{cognitoId}/favorites/{propertyId}", s.handleAddFavorite(role))
		mux.HandleFunc("DELETE "+base+"/{cognitoId}/favorites/{propertyId}", s.handleRemoveFavorite(role))
		mux.HandleFunc("GET "+base+"/{cognitoId}/current-residences", s.handleCurrentResidences(role))
	}

	for _, role := range []account.Role{account.RoleLandlord, account.RoleManager} {
		mux.HandleFunc("GET /"+rolePath(role)+"/{cognitoId}/properties", s.handleManagedProperties(role))
	}

	mux.HandleFunc("GET /properties", s.handleListProperties)
	mux.HandleFunc("POST /properties", s.handleCreateProperty)
	mux.HandleFunc("GET /properties/{id}", s.handleGetProperty)
	mux.HandleFunc("GET /properties/{id}/leases", s.handlePropertyLeases)

	mux.HandleFunc("GET /leases", s.handleListLeases)
	mux.HandleFunc("POST /leases", s.handleCreateLease)

	var handler http.Handler = mux
	if verifier != nil {
		handler = auth.Middleware(verifier, isPublicRequest, handler)
	}
	s.handler = logging.RequestLogger(handler)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// rolePath returns the URL segment for a role's collection.
func rolePath(role account.Role) string {
	return string(role) + "s"
}

// isPublicRequest reports whether a request is served without a bearer
// token: health checks and read-only property browsing.
func isPublicRequest(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if r.URL.Path == "/health" || r.URL.Path == "/properties" {
		return true
	}
	// GET /properties/{id} is public; GET /properties/{id}/leases is not.
	if strings.HasPrefix(r.URL.Path, "/properties/") && !strings.HasSuffix(r.URL.Path, "/leases") {
		return true
	}
	return false
}

// requireRole rejects the request with 403 unless the caller holds one of
// the given roles. With auth disabled every caller passes.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, roles ...account.Role) bool {
	if !s.authEnabled {
		return true
	}

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apiError(w, "authorization required", http.StatusUnauthorized)
		return false
	}
	for _, role := range roles {
		if id.Role == string(role) {
			return true
		}
	}

	apiError(w, "forbidden", http.StatusForbidden)
	return false
}

// requireSubject rejects the request with 403 unless the caller is acting
// on their own identity. Managers are exempt.
func (s *Server) requireSubject(w http.ResponseWriter, r *http.Request, cognitoID string) bool {
	if !s.authEnabled {
		return true
	}

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apiError(w, "authorization required", http.StatusUnauthorized)
		return false
	}
	if id.Sub == cognitoID || id.Role == string(account.RoleManager) {
		return true
	}

	apiError(w, "forbidden", http.StatusForbidden)
	return false
}

// identitySubject returns the authenticated subject, or "" when auth is
// disabled.
func (s *Server) identitySubject(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.Sub
	}
	return ""
}
