package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseError is an error answered by Supabase auth, with the message meant
// for the user
type SupabaseError struct {
	Status  int
	Message string
}

func (e *SupabaseError) Error() string {
	return fmt.Sprintf("supabase auth error (status %d): %s", e.Status, e.Message)
}

// AuthUser is the account Supabase auth created
type AuthUser struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

// TenantID returns app_metadata.tenant_id, or "default"
func (u *AuthUser) TenantID() string {
	if v, ok := u.AppMetadata["tenant_id"].(string); ok && v != "" {
		return v
	}
	return "default"
}

// SupabaseAuthService signs users up through Supabase auth (GoTrue)
type SupabaseAuthService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseAuthService creates a new SupabaseAuthService instance
func NewSupabaseAuthService(baseURL, apiKey string) *SupabaseAuthService {
	return &SupabaseAuthService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type signUpResponse struct {
	AuthUser
	User *AuthUser `json:"user"`
}

type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignUp creates an email/password account
func (s *SupabaseAuthService) SignUp(ctx context.Context, email, password string) (*AuthUser, error) {
	reqBody, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/signup", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr gotrueError
		_ = json.Unmarshal(body, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &SupabaseError{Status: resp.StatusCode, Message: msg}
	}

	var parsed signUpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	user := &parsed.AuthUser
	if parsed.User != nil {
		user = parsed.User
	}
	if user.ID == "" {
		return nil, fmt.Errorf("supabase sign-up returned no user")
	}
	if user.Email == "" {
		user.Email = email
	}
	return user, nil
}
