package api

import "context"

// AuthService wraps the authentication endpoints. It returns credentials;
// storing them is the session store's job, wired by the root client.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a token and identity.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := s.c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, user User) (*TokenResponse, error) {
	var out TokenResponse
	if err := s.c.post(ctx, "/auth/registro", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server to invalidate the current credential. Local
// cleanup happens regardless of this call's outcome.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.post(ctx, "/auth/logout", nil, nil)
}
