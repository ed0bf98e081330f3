package api

import (
	"context"
	"fmt"
)

// RoleService wraps the role catalog endpoints. Role names feed the
// capability resolver, so writes here are restricted to administrators
// on the server side.
type RoleService struct {
	c *Client
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := s.c.get(ctx, "/roles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one role by ID.
func (s *RoleService) Get(ctx context.Context, id int64) (*Role, error) {
	var out Role
	if err := s.c.get(ctx, fmt.Sprintf("/roles/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a role.
func (s *RoleService) Create(ctx context.Context, r Role) (*Role, error) {
	var out Role
	if err := s.c.post(ctx, "/roles", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a role.
func (s *RoleService) Update(ctx context.Context, id int64, r Role) (*Role, error) {
	var out Role
	if err := s.c.put(ctx, fmt.Sprintf("/roles/%d", id), r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a role.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/roles/%d", id))
}
