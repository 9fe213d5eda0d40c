package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/exxata/connect-api/internal/config"
)

// GoTrueClient talks to the Supabase GoTrue admin API.
// Used to invite new users and to look up auth accounts by email.
type GoTrueClient struct {
	httpClient *http.Client
	config     *config.SupabaseConfig
}

// GoTrueUser contains the auth account data returned by GoTrue
type GoTrueUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	CreatedAt    time.Time              `json:"created_at"`
	InvitedAt    *time.Time             `json:"invited_at"`
	ConfirmedAt  *time.Time             `json:"confirmed_at"`
	LastSignInAt *time.Time             `json:"last_sign_in_at"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// NewGoTrueClient creates a new GoTrue admin client
func NewGoTrueClient(cfg *config.SupabaseConfig) *GoTrueClient {
	return &GoTrueClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: cfg,
	}
}

// InviteUser sends an invite email through GoTrue and returns the created
// auth account. The role and display name are stored in user_metadata so
// they survive into the JWT claims once the invite is accepted.
func (c *GoTrueClient) InviteUser(ctx context.Context, email, name, role string) (*GoTrueUser, error) {
	if c.config.ServiceKey == "" {
		return nil, fmt.Errorf("service key not configured - cannot call admin API")
	}

	payload := map[string]interface{}{
		"email": email,
		"data": map[string]interface{}{
			"name": name,
			"role": role,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invite payload: %w", err)
	}

	return c.doUserRequest(ctx, "POST", c.adminURL("/invite"), body)
}

// GetUserByEmail looks up an auth account by email address.
// Returns nil without error when no account exists.
func (c *GoTrueClient) GetUserByEmail(ctx context.Context, email string) (*GoTrueUser, error) {
	if c.config.ServiceKey == "" {
		return nil, fmt.Errorf("service key not configured - cannot call admin API")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.adminURL("/admin/users?page=1&per_page=1&email="+email), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GoTrue API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var result struct {
		Users []GoTrueUser `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode GoTrue response: %w", err)
	}

	for i := range result.Users {
		if strings.EqualFold(result.Users[i].Email, email) {
			return &result.Users[i], nil
		}
	}
	return nil, nil
}

// UpdateUserRole overwrites the role stored in the account's app_metadata
func (c *GoTrueClient) UpdateUserRole(ctx context.Context, userID, role string) (*GoTrueUser, error) {
	if c.config.ServiceKey == "" {
		return nil, fmt.Errorf("service key not configured - cannot call admin API")
	}

	payload := map[string]interface{}{
		"app_metadata": map[string]interface{}{
			"role": role,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update payload: %w", err)
	}

	return c.doUserRequest(ctx, "PUT", c.adminURL("/admin/users/"+userID), body)
}

func (c *GoTrueClient) doUserRequest(ctx context.Context, method, url string, body []byte) (*GoTrueUser, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GoTrue API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(resp)
	}

	var user GoTrueUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode GoTrue response: %w", err)
	}
	return &user, nil
}

func (c *GoTrueClient) adminURL(path string) string {
	return strings.TrimSuffix(c.config.URL, "/") + "/auth/v1" + path
}

func (c *GoTrueClient) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)
	req.Header.Set("apikey", c.config.ServiceKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *GoTrueClient) apiError(resp *http.Response) error {
	var errorResp struct {
		Message string `json:"msg"`
		Error   string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err == nil {
		if errorResp.Message != "" {
			return fmt.Errorf("GoTrue API error (%d): %s", resp.StatusCode, errorResp.Message)
		}
		if errorResp.Error != "" {
			return fmt.Errorf("GoTrue API error (%d): %s", resp.StatusCode, errorResp.Error)
		}
	}
	return fmt.Errorf("GoTrue API returned status %d", resp.StatusCode)
}
