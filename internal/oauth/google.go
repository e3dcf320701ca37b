package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rakutentech/jwk-go/jwk"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	googleJWKSURL  = "https://www.googleapis.com/oauth2/v3/certs"
)

// Profile is the identity tuple returned by the provider. The core
// trusts it as pre-verified; a federated identity never passes through
// the one-time-code machine.
type Profile struct {
	Subject     string
	Email       string
	DisplayName string
}

type google struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewGoogle(clientID string, clientSecret string, redirectURL string) *google {
	return &google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
			Scopes: []string{"openid", "email", "profile"},
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *google) Configured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

func (g *google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange swaps the authorization code for tokens and verifies the ID
// token locally against Google's published JWKS.
func (g *google) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("token response missing id_token")
	}

	return g.verifyIDToken(ctx, rawIDToken)
}

func (g *google) verifyIDToken(ctx context.Context, rawIDToken string) (*Profile, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawIDToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("id_token missing kid header")
		}
		return g.fetchKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(g.config.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verifying id_token: %w", err)
	}

	issuer, _ := claims.GetIssuer()
	if issuer != "https://accounts.google.com" && issuer != "accounts.google.com" {
		return nil, fmt.Errorf("unexpected id_token issuer: %s", issuer)
	}

	subject, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if subject == "" || email == "" {
		return nil, fmt.Errorf("id_token missing required claims")
	}

	return &Profile{Subject: subject, Email: email, DisplayName: name}, nil
}

// fetchKey pulls the current JWKS and returns the key matching kid.
// Google rotates keys, so the set is fetched per verification rather
// than held for the process lifetime.
func (g *google) fetchKey(ctx context.Context, kid string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleJWKSURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building JWKS request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching JWKS: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading JWKS response: %w", err)
	}

	var set struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("unmarshalling JWKS: %w", err)
	}

	for _, raw := range set.Keys {
		var header struct {
			Kid string `json:"kid"`
		}
		if err := json.Unmarshal(raw, &header); err != nil || header.Kid != kid {
			continue
		}
		keySpec, err := jwk.Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing JWK %s: %w", kid, err)
		}
		return keySpec.Key, nil
	}

	return nil, fmt.Errorf("no JWKS key matching kid %s", kid)
}
