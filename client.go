package farmaplex

import (
	"context"
	"log/slog"
	"time"

	"github.com/farmaplex/farmaplex-go/api"
	"github.com/farmaplex/farmaplex-go/idle"
	"github.com/farmaplex/farmaplex-go/middleware"
	"github.com/farmaplex/farmaplex-go/permission"
	"github.com/farmaplex/farmaplex-go/session"
	"github.com/farmaplex/farmaplex-go/transport"
)

// Client is the assembled session core. Construct it with a [Builder]; the
// zero value is not usable. All methods are safe for concurrent use.
type Client struct {
	cfg Config
	log *slog.Logger

	store     *session.Store
	transport *transport.Transport
	api       *api.Client
	watchdog  *idle.Watchdog
	guard     *middleware.Guard
	metrics   *Metrics
	navigator Navigator

	hub      *idle.Hub
	activity idle.Source

	unsubscribe func()
}

// Login authenticates, stores the returned credential and identity, and
// starts the inactivity watchdog.
func (c *Client) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	tr, err := c.api.Auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		return nil, err
	}
	if err := c.adopt(tr); err != nil {
		c.metrics.Inc(MetricLoginFailure)
		return nil, err
	}
	c.metrics.Inc(MetricLoginSuccess)
	c.log.Info("login", "user", tr.Email, "role", tr.Role)
	return tr, nil
}

// Register creates an account and logs the new user in.
func (c *Client) Register(ctx context.Context, user api.User) (*api.TokenResponse, error) {
	tr, err := c.api.Auth.Register(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := c.adopt(tr); err != nil {
		return nil, err
	}
	c.metrics.Inc(MetricLoginSuccess)
	return tr, nil
}

func (c *Client) adopt(tr *api.TokenResponse) error {
	return c.store.SetUser(session.Identity{
		UserID: tr.UserID,
		Email:  tr.Email,
		Name:   tr.Name,
		Role:   tr.Role,
	}, tr.Token)
}

// Logout tells the server to drop the credential, then clears local state
// no matter what the server said. The watchdog stops through the session
// subscription.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.api.Auth.Logout(ctx); err != nil {
		c.log.Warn("server logout failed, clearing locally", "err", err)
	}
	if err := c.store.Logout(); err != nil {
		return err
	}
	c.metrics.Inc(MetricLogout)
	return nil
}

// Initialize restores any stored session. The route guard calls this
// lazily on first evaluation; call it directly to restore earlier.
func (c *Client) Initialize() error {
	err := c.store.Initialize()
	if c.store.Authenticated() {
		c.metrics.Inc(MetricSessionRestored)
	}
	return err
}

// onSessionChange keeps the watchdog aligned with the session: running
// while authenticated, stopped otherwise.
func (c *Client) onSessionChange(sess session.Session) {
	if c.watchdog == nil {
		return
	}
	if sess.Authenticated() {
		c.watchdog.Start()
	} else {
		c.watchdog.Stop()
	}
}

// onAuthFailure runs once per transport-detected expiry, after durable
// storage is already cleared. It converges the in-memory session; the
// notice and delayed redirect are the transport's job.
func (c *Client) onAuthFailure() {
	c.metrics.Inc(MetricAuthFailure)
	if err := c.store.Logout(); err != nil {
		c.log.Error("session cleanup after credential rejection", "err", err)
	}
}

// onIdleExpire ends the session after the idle budget. Unlike credential
// rejection there is no delay: the terminal is unattended, so the redirect
// fires immediately.
func (c *Client) onIdleExpire() {
	c.metrics.Inc(MetricIdleExpiry)
	if err := c.store.Logout(); err != nil {
		c.log.Error("session cleanup after idle expiry", "err", err)
	}
	c.navigator.Redirect(c.cfg.Expiry.LoginPath)
}

// Close detaches the session subscription and stops the watchdog. The
// client is not usable afterward.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.watchdog != nil {
		c.watchdog.Stop()
	}
}

// API returns the typed backend client. Every call through it carries the
// session credential and participates in expiry detection.
func (c *Client) API() *api.Client { return c.api }

// Store returns the session store.
func (c *Client) Store() *session.Store { return c.store }

// Guard returns the route guard for the startup settle window.
func (c *Client) Guard() *middleware.Guard { return c.guard }

// Activity returns the source feeding the inactivity watchdog.
func (c *Client) Activity() idle.Source { return c.activity }

// Touch records user activity, resetting the idle countdowns. It is a
// no-op when the builder was given a custom activity source.
func (c *Client) Touch(k idle.Kind) {
	if c.hub != nil {
		c.hub.Emit(k)
	}
}

// Metrics returns the lifecycle counters.
func (c *Client) Metrics() *Metrics { return c.metrics }

// Expired reports whether the transport has already run the expiry
// sequence for the current session.
func (c *Client) Expired() bool { return c.transport.Expired() }

// Permissions resolves the current identity's capabilities. An
// unauthenticated session resolves as the most restricted role.
func (c *Client) Permissions() permission.Resolver {
	return permission.Resolver{Role: c.store.Current().Identity.Role}
}

// SessionExpiresAt reports the credential's expiry claim, when the stored
// token carries one.
func (c *Client) SessionExpiresAt() (time.Time, bool) {
	sess := c.store.Current()
	if !sess.Authenticated() {
		return time.Time{}, false
	}
	return session.TokenExpiry(sess.Token)
}
