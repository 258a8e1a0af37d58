package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gestionale/internal/core"
)

// User is the GoTrue view of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the token pair returned by password-grant sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// AuthClient wraps the GoTrue endpoints of the project.
type AuthClient struct {
	client *Client
}

// Auth returns the auth surface of the client.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn performs a password-grant login and returns the session.
// Wrong credentials come back as a ValidationError.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers an account. Depending on project settings the
// session may lack tokens until the email is confirmed.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.post(ctx, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Recover sends a password-recovery email. GoTrue answers 200 whether
// or not the address exists, so callers cannot probe accounts.
func (a *AuthClient) Recover(ctx context.Context, email string) error {
	return a.post(ctx, "/auth/v1/recover", "", map[string]string{"email": email}, nil)
}

// UpdatePassword sets a new password for the session holder.
func (a *AuthClient) UpdatePassword(ctx context.Context, accessToken, password string) (*User, error) {
	var user User
	err := a.request(ctx, http.MethodPut, "/auth/v1/user", accessToken, map[string]string{"password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches the account behind an access token.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := a.request(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthClient) post(ctx context.Context, path, bearer string, body, out any) error {
	return a.request(ctx, http.MethodPost, path, bearer, body, out)
}

func (a *AuthClient) request(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	a.client.setHeaders(req, bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return &core.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		// GoTrue uses 400/401/403/422 for credential and policy
		// problems; those belong to the caller, not the transport.
		if resp.StatusCode < 500 {
			return &core.ValidationError{Message: msg}
		}
		return &core.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
