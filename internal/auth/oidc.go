package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is the provider-asserted identity extracted from a validated
// ID token.
type Profile struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type OIDCConfig struct {
	IssuerURL    string
	DiscoveryURL string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	HTTPClient   *http.Client
}

// OIDCVerifier runs the authorization-code flow against one provider:
// discovery, code exchange and RS256 ID-token validation via JWKS.
type OIDCVerifier struct {
	httpClient *http.Client
	cfg        OIDCConfig
}

type discoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func NewOIDCVerifier(cfg OIDCConfig) *OIDCVerifier {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	return &OIDCVerifier{
		httpClient: httpClient,
		cfg:        cfg,
	}
}

// AuthCodeURL builds the provider's authorization redirect for a fresh
// state+nonce pair.
func (v *OIDCVerifier) AuthCodeURL(ctx context.Context, state, nonce string) (string, error) {
	if strings.TrimSpace(state) == "" || strings.TrimSpace(nonce) == "" {
		return "", fmt.Errorf("state and nonce are required")
	}

	doc, err := v.discover(ctx)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", v.cfg.ClientID)
	q.Set("redirect_uri", v.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(v.cfg.Scopes, " "))
	q.Set("state", state)
	q.Set("nonce", nonce)

	return doc.AuthorizationEndpoint + "?" + q.Encode(), nil
}

// Exchange trades the authorization code for an ID token and validates
// it against the provider's signing keys. Any failure here is a denied
// assertion; no local user has been touched yet.
func (v *OIDCVerifier) Exchange(ctx context.Context, code, nonce string) (Profile, error) {
	if strings.TrimSpace(code) == "" {
		return Profile{}, fmt.Errorf("%w: authorization code is required", ErrAuthenticationDenied)
	}

	doc, err := v.discover(ctx)
	if err != nil {
		return Profile{}, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", v.cfg.ClientID)
	form.Set("client_secret", v.cfg.ClientSecret)
	form.Set("redirect_uri", v.cfg.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, doc.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Profile{}, fmt.Errorf("%w: token exchange failed: status=%d body=%s",
			ErrAuthenticationDenied, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Profile{}, fmt.Errorf("decode token response: %w", err)
	}
	if strings.TrimSpace(token.IDToken) == "" {
		return Profile{}, fmt.Errorf("%w: id_token missing in token response", ErrAuthenticationDenied)
	}

	keySet, err := v.fetchJWKS(ctx, doc.JWKSURI)
	if err != nil {
		return Profile{}, err
	}

	return validateIDToken(token.IDToken, keySet, doc.Issuer, v.cfg.ClientID, nonce)
}

func (v *OIDCVerifier) discover(ctx context.Context) (discoveryDocument, error) {
	discoveryURL := strings.TrimSpace(v.cfg.DiscoveryURL)
	if discoveryURL == "" {
		discoveryURL = strings.TrimRight(strings.TrimSpace(v.cfg.IssuerURL), "/") + "/.well-known/openid-configuration"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return discoveryDocument{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return discoveryDocument{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return discoveryDocument{}, fmt.Errorf("oidc discovery failed: status=%d", resp.StatusCode)
	}

	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return discoveryDocument{}, fmt.Errorf("decode discovery document: %w", err)
	}
	if doc.AuthorizationEndpoint == "" || doc.TokenEndpoint == "" || doc.JWKSURI == "" {
		return discoveryDocument{}, fmt.Errorf("discovery document missing required endpoints")
	}

	return doc, nil
}

func (v *OIDCVerifier) fetchJWKS(ctx context.Context, jwksURI string) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jwks fetch failed: status=%d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for i, key := range doc.Keys {
		if strings.ToUpper(strings.TrimSpace(key.Kty)) != "RSA" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(key.N))
		if err != nil {
			return nil, fmt.Errorf("decode jwks n: %w", err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(key.E))
		if err != nil {
			return nil, fmt.Errorf("decode jwks e: %w", err)
		}
		eBig := new(big.Int).SetBytes(eBytes)
		if !eBig.IsInt64() || eBig.Int64() <= 1 {
			return nil, fmt.Errorf("invalid jwks exponent for key %s", key.Kid)
		}

		kid := strings.TrimSpace(key.Kid)
		if kid == "" {
			kid = fmt.Sprintf("key-%d", i)
		}
		keys[kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(eBig.Int64()),
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no RSA keys found in jwks")
	}

	return keys, nil
}

func validateIDToken(raw string, keySet map[string]*rsa.PublicKey, issuer, clientID, expectedNonce string) (Profile, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(token *jwt.Token) (any, error) {
			kid, _ := token.Header["kid"].(string)
			if strings.TrimSpace(kid) != "" {
				key, ok := keySet[kid]
				if !ok {
					return nil, fmt.Errorf("unknown key id: %s", kid)
				}
				return key, nil
			}
			if len(keySet) == 1 {
				for _, key := range keySet {
					return key, nil
				}
			}
			return nil, fmt.Errorf("missing key id")
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(clientID),
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: validate id_token: %v", ErrAuthenticationDenied, err)
	}
	if !parsed.Valid {
		return Profile{}, fmt.Errorf("%w: invalid id_token", ErrAuthenticationDenied)
	}

	subject := stringClaim(claims, "sub")
	if subject == "" {
		return Profile{}, fmt.Errorf("%w: id_token missing sub", ErrAuthenticationDenied)
	}
	if expectedNonce != "" && stringClaim(claims, "nonce") != expectedNonce {
		return Profile{}, fmt.Errorf("%w: nonce mismatch", ErrAuthenticationDenied)
	}

	return Profile{
		Subject:    subject,
		Email:      stringClaim(claims, "email"),
		Name:       stringClaim(claims, "name"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
