package auth0

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

// DefaultFetchTimeout bounds a single JWKS request when no timeout is configured
const DefaultFetchTimeout = 5 * time.Second

// KeySet represents the JSON Web Key Set published by the tenant
type KeySet struct {
	Keys []KeyRecord `json:"keys"`
}

// KeyRecord represents a single JSON Web Key
type KeyRecord struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Lookup returns the first key whose kid matches
func (s *KeySet) Lookup(kid string) (KeyRecord, bool) {
	if s == nil || kid == "" {
		return KeyRecord{}, false
	}
	for _, key := range s.Keys {
		if key.Kid == kid {
			return key, true
		}
	}
	return KeyRecord{}, false
}

// RSAPublicKey converts the record's modulus and exponent into an RSA public key
func (k KeyRecord) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "" && k.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, errors.New("empty modulus or exponent")
	}
	if len(eBytes) > 4 {
		return nil, errors.New("exponent too large")
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e < 2 {
		return nil, fmt.Errorf("invalid exponent %d", e)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}

// KeySetFetcher retrieves the identity provider's current signing keys
type KeySetFetcher interface {
	FetchKeySet(ctx context.Context) (*KeySet, error)
}

// HTTPKeySetFetcher downloads the key set on every call
type HTTPKeySetFetcher struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPKeySetFetcher creates a fetcher for the given JWKS URL. A zero
// timeout falls back to DefaultFetchTimeout; a nil client uses a fresh one.
func NewHTTPKeySetFetcher(url string, timeout time.Duration, client *http.Client) *HTTPKeySetFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPKeySetFetcher{
		url:        url,
		timeout:    timeout,
		httpClient: client,
	}
}

// URL returns the endpoint the fetcher reads from
func (f *HTTPKeySetFetcher) URL() string {
	return f.url
}

// FetchKeySet fetches and decodes the JWKS document
func (f *HTTPKeySetFetcher) FetchKeySet(ctx context.Context) (*KeySet, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrKeySetFetchFailed, resp.StatusCode)
	}

	var doc struct {
		Keys *[]KeyRecord `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode JWKS: %v", ErrKeySetFetchFailed, err)
	}
	if doc.Keys == nil {
		return nil, fmt.Errorf("%w: document has no keys member", ErrKeySetFetchFailed)
	}

	return &KeySet{Keys: *doc.Keys}, nil
}
