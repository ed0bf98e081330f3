package farmaplex

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from TOML strings like "25m"
// or "2.5s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config assembles a Client. All sections have working defaults; the only
// value without one is API.BaseURL.
type Config struct {
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	Idle    IdleConfig    `toml:"idle"`
	Expiry  ExpiryConfig  `toml:"expiry"`
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the backend and shapes outgoing requests.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.farmaplex.pe/api".
	BaseURL string `toml:"base_url"`
	// Timeout bounds each request end to end.
	Timeout Duration `toml:"timeout"`
	// UserAgent is set on requests that do not already carry one.
	UserAgent string `toml:"user_agent"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig names the storage entries and tunes startup.
type SessionConfig struct {
	// TokenKey and IdentityKey are the storage keys for the credential and
	// the identity mirror.
	TokenKey    string `toml:"token_key"`
	IdentityKey string `toml:"identity_key"`
	// SettleDelay is how long the route guard reports pending after the
	// stored session has been restored, so the first screen does not flash
	// a redirect.
	SettleDelay Duration `toml:"settle_delay"`
}

/*
====================================
IDLE CONFIG
====================================
*/

// IdleConfig tunes the inactivity watchdog.
type IdleConfig struct {
	// Enabled turns the watchdog on. Default true.
	Enabled *bool `toml:"enabled"`
	// WarningAfter is the idle time before the expiry warning notice.
	WarningAfter Duration `toml:"warning_after"`
	// ExpireAfter is the idle time before the session is ended.
	ExpireAfter Duration `toml:"expire_after"`
}

/*
====================================
EXPIRY CONFIG
====================================
*/

// ExpiryConfig tunes the end-of-session sequence shared by credential
// rejection and idle expiry.
type ExpiryConfig struct {
	// LoginPath is the redirect target.
	LoginPath string `toml:"login_path"`
	// RedirectDelay keeps the expiry notice readable before the redirect.
	RedirectDelay Duration `toml:"redirect_delay"`
}

// DefaultConfig returns the configuration a stock terminal runs with:
// 25 minute idle warning, 30 minute idle expiry, 2.5 second redirect
// delay, 100 millisecond settle window, "/login" as the login route.
func DefaultConfig() Config {
	enabled := true
	return Config{
		API: APIConfig{
			Timeout:   Duration(30 * time.Second),
			UserAgent: "farmaplex-go",
		},
		Session: SessionConfig{
			TokenKey:    "token",
			IdentityKey: "user",
			SettleDelay: Duration(100 * time.Millisecond),
		},
		Idle: IdleConfig{
			Enabled:      &enabled,
			WarningAfter: Duration(25 * time.Minute),
			ExpireAfter:  Duration(30 * time.Minute),
		},
		Expiry: ExpiryConfig{
			LoginPath:     "/login",
			RedirectDelay: Duration(2500 * time.Millisecond),
		},
	}
}

// fillDefaults replaces zero values with the stock configuration so a
// sparse TOML file only has to name what it changes.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.API.Timeout <= 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = def.API.UserAgent
	}
	if c.Session.TokenKey == "" {
		c.Session.TokenKey = def.Session.TokenKey
	}
	if c.Session.IdentityKey == "" {
		c.Session.IdentityKey = def.Session.IdentityKey
	}
	if c.Session.SettleDelay <= 0 {
		c.Session.SettleDelay = def.Session.SettleDelay
	}
	if c.Idle.Enabled == nil {
		c.Idle.Enabled = def.Idle.Enabled
	}
	if c.Idle.WarningAfter <= 0 {
		c.Idle.WarningAfter = def.Idle.WarningAfter
	}
	if c.Idle.ExpireAfter <= 0 {
		c.Idle.ExpireAfter = def.Idle.ExpireAfter
	}
	if c.Expiry.LoginPath == "" {
		c.Expiry.LoginPath = def.Expiry.LoginPath
	}
	if c.Expiry.RedirectDelay <= 0 {
		c.Expiry.RedirectDelay = def.Expiry.RedirectDelay
	}
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.Session.TokenKey == c.Session.IdentityKey {
		return errors.New("config: session token_key and identity_key must differ")
	}
	if idleEnabled(c.Idle) && c.Idle.WarningAfter >= c.Idle.ExpireAfter {
		return errors.New("config: idle.warning_after must be shorter than idle.expire_after")
	}
	return nil
}

// LoadConfig reads a TOML file, fills unspecified values with defaults,
// and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func idleEnabled(ic IdleConfig) bool {
	return ic.Enabled == nil || *ic.Enabled
}
