package client

import "context"

// User account operations - all methods operate directly on Client.
// Credential validation is deferred to the backend.

// Register creates a new account. It does not create a session; call
// Login with the same credentials afterwards.
func (c *Client) Register(ctx context.Context, username, password, email string) (*RegisterResponse, error) {
	var out RegisterResponse
	req := RegisterRequest{Username: username, Password: password, Email: email}
	if err := c.post(ctx, "register", "/user/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session token and user id.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}
	if err := c.post(ctx, "login", "/user/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate verifies a session token and returns the user it belongs to.
func (c *Client) Authenticate(ctx context.Context, sessionToken string) (*AuthenticateResponse, error) {
	var out AuthenticateResponse
	req := struct {
		SessionToken string `json:"sessionToken"`
	}{sessionToken}
	if err := c.post(ctx, "authenticate", "/user/authenticate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates a session token on the backend.
func (c *Client) Logout(ctx context.Context, sessionToken string) error {
	req := struct {
		SessionToken string `json:"sessionToken"`
	}{sessionToken}
	return c.post(ctx, "logout", "/user/logout", req, nil)
}

// UpdatePassword changes the account password. The old password is
// re-verified server side.
func (c *Client) UpdatePassword(ctx context.Context, sessionToken, userID, oldPassword, newPassword string) error {
	req := struct {
		SessionToken string `json:"sessionToken"`
		UserID       string `json:"userId"`
		OldPassword  string `json:"oldPassword"`
		NewPassword  string `json:"newPassword"`
	}{sessionToken, userID, oldPassword, newPassword}
	return c.post(ctx, "update_password", "/user/updatePassword", req, nil)
}

// GetUserProfile fetches the account-level record (username, email).
func (c *Client) GetUserProfile(ctx context.Context, sessionToken, userID string) (*UserProfile, error) {
	var out UserProfile
	req := struct {
		SessionToken string `json:"sessionToken"`
		UserID       string `json:"userId"`
	}{sessionToken, userID}
	if err := c.post(ctx, "get_user_profile", "/user/getUserProfile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
