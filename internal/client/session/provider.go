package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/urlguard"
)

// HTTPTokenProvider talks to the identity provider's token endpoint. Both
// grants go through the same URL, selected by the grant_type query
// parameter.
type HTTPTokenProvider struct {
	baseURL string
	apiKey  string
	guard   *urlguard.Guard
	client  *http.Client
}

func NewHTTPTokenProvider(baseURL, apiKey string, guard *urlguard.Guard) *HTTPTokenProvider {
	return &HTTPTokenProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		guard:   guard,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p *HTTPTokenProvider) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	return p.grant(ctx, "password", map[string]string{"email": email, "password": password})
}

func (p *HTTPTokenProvider) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	return p.grant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (p *HTTPTokenProvider) grant(ctx context.Context, grantType string, body map[string]string) (*Tokens, error) {
	u := fmt.Sprintf("%s/auth/v1/token?grant_type=%s", p.baseURL, grantType)
	if err := p.guard.ValidateRequestURL(u); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: token endpoint returned status %d", common.ErrUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &Tokens{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}, nil
}
