// Package auth verifies bearer tokens issued by the external identity
// provider and exposes the caller's identity to handlers. Tokens are
// verified against the provider's published key set; decode-without-verify
// is deliberately not supported.
package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller: the provider-issued subject and the
// custom role claim.
type Identity struct {
	Sub  string
	Role string
}

// ErrUnknownKey is returned when a token's key id is not in the key set,
// even after a refresh.
var ErrUnknownKey = errors.New("token signed with unknown key")

// roleClaim is the custom claim carrying the marketplace role.
const roleClaim = "custom:role"

// Verifier validates RS256 bearer tokens against a JWKS document loaded
// from a file or URL. Keys are cached; an unknown kid triggers one reload
// to pick up rotated keys.
type Verifier struct {
	source string
	issuer string
	client *http.Client

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

// NewVerifier loads the key set from source (a file path or http(s) URL)
// and returns a verifier. If issuer is non-empty, tokens must carry a
// matching iss claim.
func NewVerifier(source, issuer string) (*Verifier, error) {
	v := &Verifier{
		source: source,
		issuer: issuer,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	if err := v.refresh(); err != nil {
		return nil, fmt.Errorf("loading key set from %s: %w", source, err)
	}
	return v, nil
}

// Verify checks the token's signature and registered claims and returns the
// caller's identity.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}

	role, _ := claims[roleClaim].(string)

	return &Identity{Sub: sub, Role: role}, nil
}

// keyFunc selects the RSA key matching the token's kid header, reloading
// the key set once if the kid is unknown.
func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)

	if key := v.lookup(kid); key != nil {
		return key, nil
	}

	if err := v.refresh(); err != nil {
		return nil, fmt.Errorf("refreshing key set: %w", err)
	}
	if key := v.lookup(kid); key != nil {
		return key, nil
	}

	return nil, ErrUnknownKey
}

// lookup returns the key for kid. With an empty kid and exactly one key in
// the set, that key is used.
func (v *Verifier) lookup(kid string) *rsa.PublicKey {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if kid != "" {
		return v.keys[kid]
	}
	if len(v.keys) == 1 {
		for _, key := range v.keys {
			return key
		}
	}
	return nil
}

// refresh reloads the JWKS document from the configured source.
func (v *Verifier) refresh() error {
	data, err := v.fetch()
	if err != nil {
		return err
	}

	keys, err := parseJWKS(data)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
	return nil
}

func (v *Verifier) fetch() ([]byte, error) {
	if strings.HasPrefix(v.source, "http://") || strings.HasPrefix(v.source, "https://") {
		resp, err := v.client.Get(v.source)
		if err != nil {
			return nil, fmt.Errorf("fetching key set: %w", err)
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				err = fmt.Errorf("closing response: %w", cerr)
			}
		}()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching key set: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(v.source)
}

// parseJWKS extracts the RSA public keys from a JWKS document, keyed by kid.
func parseJWKS(data []byte) (map[string]*rsa.PublicKey, error) {
	var doc struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("key %s: decoding modulus: %w", k.Kid, err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("key %s: decoding exponent: %w", k.Kid, err)
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}

	if len(keys) == 0 {
		return nil, errors.New("key set contains no RSA keys")
	}
	return keys, nil
}
