package api

import (
	"context"
	"fmt"
	"net/url"
)

// SubscriptionService wraps the subscription endpoints.
type SubscriptionService struct {
	c *Client
}

// List returns every subscription visible to the caller.
func (s *SubscriptionService) List(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := s.c.get(ctx, "/suscripciones", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one subscription by ID.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*Subscription, error) {
	var out Subscription
	if err := s.c.get(ctx, fmt.Sprintf("/suscripciones/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns the subscriptions whose principal is the given user.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID int64) ([]Subscription, error) {
	var out []Subscription
	if err := s.c.get(ctx, fmt.Sprintf("/suscripciones/usuario/%d", userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByState filters subscriptions by state.
func (s *SubscriptionService) ListByState(ctx context.Context, state string) ([]Subscription, error) {
	var out []Subscription
	if err := s.c.get(ctx, "/suscripciones/estado/"+url.PathEscape(state), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create opens a subscription.
func (s *SubscriptionService) Create(ctx context.Context, sub Subscription) (*Subscription, error) {
	var out Subscription
	if err := s.c.post(ctx, "/suscripciones", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a subscription.
func (s *SubscriptionService) Update(ctx context.Context, id int64, sub Subscription) (*Subscription, error) {
	var out Subscription
	if err := s.c.put(ctx, fmt.Sprintf("/suscripciones/%d", id), sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel marks a subscription cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, id int64) (*Subscription, error) {
	var out Subscription
	if err := s.c.patch(ctx, fmt.Sprintf("/suscripciones/%d/cancelar", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a subscription.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/suscripciones/%d", id))
}
