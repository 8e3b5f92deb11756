package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
)

var _ market.Store = (*Client)(nil)

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if out["status"] != "ok" {
		return fmt.Errorf("health check failed: status %q", out["status"])
	}
	return nil
}

// Version calls GET /version.
func (c *Client) Version(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/version", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Signup creates an account and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", req, &out); err != nil {
		return models.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

// Signin authenticates and stores the returned token on the client.
func (c *Client) Signin(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", models.SigninRequest{Email: email, Password: password}, &out); err != nil {
		return models.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

// Signout tells the server and forgets the token.
func (c *Client) Signout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

// UpdateProfile calls PUT /v1/me and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodPut, "/v1/me", req, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

func (c *Client) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	var out []models.Opportunity
	if err := c.do(ctx, http.MethodGet, "/v1/opportunities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOpportunity(ctx context.Context, id string) (models.Opportunity, error) {
	var out models.Opportunity
	if err := c.do(ctx, http.MethodGet, "/v1/opportunities/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Opportunity{}, err
	}
	return out, nil
}

func (c *Client) ListMyOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	var out []models.Opportunity
	if err := c.do(ctx, http.MethodGet, "/v1/provider/opportunities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOpportunity(ctx context.Context, in models.OpportunityInput) (models.Opportunity, error) {
	var out models.Opportunity
	if err := c.do(ctx, http.MethodPost, "/v1/provider/opportunities", in, &out); err != nil {
		return models.Opportunity{}, err
	}
	return out, nil
}

func (c *Client) UpdateOpportunity(ctx context.Context, id string, in models.OpportunityInput) (models.Opportunity, error) {
	var out models.Opportunity
	if err := c.do(ctx, http.MethodPut, "/v1/provider/opportunities/"+url.PathEscape(id), in, &out); err != nil {
		return models.Opportunity{}, err
	}
	return out, nil
}

func (c *Client) SetOpportunityActive(ctx context.Context, id string, active bool) error {
	return c.do(ctx, http.MethodPatch, "/v1/provider/opportunities/"+url.PathEscape(id)+"/active", models.ActiveRequest{IsActive: active}, nil)
}

func (c *Client) DeleteOpportunity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/provider/opportunities/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SaveOpportunity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/saved/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UnsaveOpportunity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/saved/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListSavedIDs(ctx context.Context) ([]string, error) {
	var out models.SavedIDs
	if err := c.do(ctx, http.MethodGet, "/v1/saved", nil, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}
