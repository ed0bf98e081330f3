package api

import (
	"context"
	"fmt"
	"net/url"
)

// UserService wraps the user administration endpoints.
type UserService struct {
	c *Client
}

// List returns every account visible to the caller.
func (s *UserService) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.c.get(ctx, "/usuarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one account by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := s.c.get(ctx, fmt.Sprintf("/usuarios/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByEmail looks an account up by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	var out User
	if err := s.c.get(ctx, "/usuarios/email/"+url.PathEscape(email), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByTenant returns a tenant's accounts.
func (s *UserService) ListByTenant(ctx context.Context, tenantID string) ([]User, error) {
	var out []User
	if err := s.c.get(ctx, "/usuarios/tenant/"+url.PathEscape(tenantID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces an account.
func (s *UserService) Update(ctx context.Context, id int64, u User) (*User, error) {
	var out User
	if err := s.c.put(ctx, fmt.Sprintf("/usuarios/%d", id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate disables an account without deleting it.
func (s *UserService) Deactivate(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := s.c.patch(ctx, fmt.Sprintf("/usuarios/%d/desactivar", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activate re-enables a deactivated account.
func (s *UserService) Activate(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := s.c.patch(ctx, fmt.Sprintf("/usuarios/%d/activar", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/usuarios/%d", id))
}
