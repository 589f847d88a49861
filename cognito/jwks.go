package cognito

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrKeyNotFound is returned when no signing key matches the requested key id
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrJWKSFetchFailed is returned when the JWKS endpoint is unreachable or
	// returns an unusable response. Callers should treat it as a transient
	// authentication failure, not a server error.
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")
)

// JWKS represents the JSON Web Key Set published by the issuer
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a single JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeyResolver fetches and caches the issuer's public signing keys by key id.
//
// The cache is process-wide: a hit returns immediately, a miss triggers a
// single upstream fetch of the full key set and retries the lookup. Concurrent
// misses are coalesced into one upstream call, and a cooldown window between
// fetches keeps a burst of unknown key ids from turning into a fetch storm.
type KeyResolver struct {
	jwksURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	cooldown   time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
	lastFetch time.Time

	group singleflight.Group
}

// KeyResolverConfig holds configuration for the KeyResolver
type KeyResolverConfig struct {
	JWKSURL       string
	CacheTTL      time.Duration
	FetchCooldown time.Duration
	HTTPTimeout   time.Duration
}

// NewKeyResolver creates a key resolver for the given JWKS endpoint
func NewKeyResolver(cfg KeyResolverConfig, logger *zap.Logger) *KeyResolver {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 1 * time.Hour
	}
	if cfg.FetchCooldown == 0 {
		cfg.FetchCooldown = 30 * time.Second
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	return &KeyResolver{
		jwksURL:  cfg.JWKSURL,
		cacheTTL: cfg.CacheTTL,
		cooldown: cfg.FetchCooldown,
		logger:   logger,
		now:      time.Now,
		keys:     make(map[string]*rsa.PublicKey),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// Resolve returns the public key for the given key id.
//
// A cache miss refreshes the key set once and retries; a second miss is
// ErrKeyNotFound. Misses inside the fetch cooldown window fail without
// hitting the issuer.
func (r *KeyResolver) Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, fmt.Errorf("%w: empty key id", ErrKeyNotFound)
	}

	if key, ok := r.lookup(kid); ok {
		return key, nil
	}

	// Coalesce concurrent misses into one upstream fetch
	_, err, _ := r.group.Do("refresh", func() (interface{}, error) {
		return nil, r.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}

	if key, ok := r.lookup(kid); ok {
		return key, nil
	}

	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

// lookup returns the cached key for kid while the cache is fresh
func (r *KeyResolver) lookup(kid string) (*rsa.PublicKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.now().After(r.expiresAt) {
		return nil, false
	}
	key, ok := r.keys[kid]
	return key, ok
}

// refresh fetches the key set and replaces the cache. Inside the cooldown
// window it returns immediately without an upstream call; the caller's retry
// lookup then decides hit or miss against whatever is cached.
func (r *KeyResolver) refresh(ctx context.Context) error {
	r.mu.Lock()
	if r.now().Sub(r.lastFetch) < r.cooldown {
		r.mu.Unlock()
		return nil
	}
	r.lastFetch = r.now()
	r.mu.Unlock()

	jwks, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Kty != "RSA" {
			continue
		}
		key, err := jwkToRSAPublicKey(jwk)
		if err != nil {
			r.logger.Warn("skipping unparseable JWK",
				zap.String("kid", jwk.Kid),
				zap.Error(err))
			continue
		}
		keys[jwk.Kid] = key
	}

	r.mu.Lock()
	r.keys = keys
	r.expiresAt = r.now().Add(r.cacheTTL)
	r.mu.Unlock()

	r.logger.Debug("JWKS cache refreshed", zap.Int("keys", len(keys)))
	return nil
}

// fetch performs the upstream JWKS request
func (r *KeyResolver) fetch(ctx context.Context) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrJWKSFetchFailed, err)
	}

	return &jwks, nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}

// InvalidateCache drops all cached keys and resets the cooldown (useful for
// testing or a forced refresh)
func (r *KeyResolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = make(map[string]*rsa.PublicKey)
	r.expiresAt = time.Time{}
	r.lastFetch = time.Time{}
}
