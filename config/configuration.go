package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"
)

// ServerConfiguration contains the server settings
type ServerConfiguration struct {
	Port      int
	Address   string
	CSRFToken string `mapstructure:"csrf-token" json:"-"`
	// Production switches cookies to Secure + SameSite=None
	Production bool
}

// SMTPConfiguration contains the email settings
type SMTPConfiguration struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string `json:"-"`
	// DisplayName will be displayed as email sender
	DisplayName string `mapstructure:"display-name"`
	// Address is the sender address
	Address string
}

// DatabaseConfiguration contains the settings required to connect to a database
type DatabaseConfiguration struct {
	Type string
	DSN  string `json:"-"`
}

// BehaviourConfiguration configures how the identity lifecycle behaves
type BehaviourConfiguration struct {
	Name string
	// FrontendURL is used for links in emails and the oauth redirect after sign in
	FrontendURL         string        `mapstructure:"frontend-url"`
	DefaultLocale       string        `mapstructure:"default-locale"`
	AutoLockoutCount    int           `mapstructure:"auto-lockout-count"`
	AutoLockoutDuration time.Duration `mapstructure:"auto-lockout-duration"`
	PasswordMinLength   int           `mapstructure:"password-min-length"`
	NameMinLength       int           `mapstructure:"name-min-length"`
	OTPExpiry           time.Duration `mapstructure:"otp-expiry"`
	EmailLinkExpiry     time.Duration `mapstructure:"email-link-expiry"`
	ResetGrantExpiry    time.Duration `mapstructure:"reset-grant-expiry"`
	// ResetRequiresOTP enforces re-submitting the reset otp on reset-password
	ResetRequiresOTP bool `mapstructure:"reset-requires-otp"`
	// NotificationWorkers is the size of the async notification pool
	NotificationWorkers int `mapstructure:"notification-workers"`
	NotificationBuffer  int `mapstructure:"notification-buffer"`
}

// SessionConfiguration contains the cookie session settings
type SessionConfiguration struct {
	CookieName         string        `mapstructure:"cookie-name"`
	MaxAge             time.Duration `mapstructure:"max-age"`
	RememberMeDuration time.Duration `mapstructure:"remember-me-duration"`
}

// GoogleConfiguration contains the google sign in settings
type GoogleConfiguration struct {
	Enable       bool
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret" json:"-"`
	CallbackURL  string `mapstructure:"callback-url"`
}

// RateLimitConfiguration configures the request limiter,
// without a redis address the counters are kept in process memory
type RateLimitConfiguration struct {
	Enable        bool
	RedisAddress  string `mapstructure:"redis-address"`
	RedisPassword string `mapstructure:"redis-password" json:"-"`
	RedisDB       int    `mapstructure:"redis-db"`
}

// MetricsConfiguration toggles the prometheus endpoint
type MetricsConfiguration struct {
	Enable bool
	Path   string
}

// CORSConfiguration very basic cors configuration
type CORSConfiguration struct {
	AllowCredentials bool     `mapstructure:"allow-credentials"`
	AllowedMethods   []string `mapstructure:"allowed-methods"`
	AllowedOrigins   []string `mapstructure:"allowed-origins"`
}

// FileSystems contains the used file systems
type FileSystems struct {
	Templates fs.FS
}

// Configuration habours the entire service configuration
type Configuration struct {
	Server    *ServerConfiguration    `mapstructure:"server"`
	SMTP      *SMTPConfiguration      `mapstructure:"smtp"`
	Database  *DatabaseConfiguration  `mapstructure:"database"`
	Behaviour *BehaviourConfiguration `mapstructure:"behaviour"`
	Session   *SessionConfiguration   `mapstructure:"session"`
	Google    *GoogleConfiguration    `mapstructure:"google"`
	RateLimit *RateLimitConfiguration `mapstructure:"rate-limit"`
	Metrics   *MetricsConfiguration   `mapstructure:"metrics"`
	CORS      *CORSConfiguration      `mapstructure:"cors"`
}

// Validate does some basic validation of the config file and tries to be helpful on missconfiguration
func (c *Configuration) Validate() error {
	if c.Database == nil {
		return errors.New("no database configuration found")
	}
	switch c.Database.Type {
	case "sqlite", "mysql", "pg":
	default:
		return errors.New("database.type must be one of sqlite, mysql, pg")
	}
	if c.SMTP == nil {
		return errors.New("no SMTP configuration found")
	}
	if c.Behaviour == nil {
		return errors.New("no behaviour configuration found")
	}
	if c.Behaviour.AutoLockoutCount <= 0 {
		return errors.New("behaviour.auto-lockout-count must be positive")
	}
	if c.Behaviour.PasswordMinLength <= 0 {
		return errors.New("behaviour.password-min-length must be positive")
	}
	if c.Server == nil {
		return errors.New("no server configuration found")
	}
	if c.Session == nil {
		return errors.New("no session configuration found")
	}
	if c.Google != nil && c.Google.Enable {
		if c.Google.ClientID == "" || c.Google.ClientSecret == "" || c.Google.CallbackURL == "" {
			return errors.New(
				"when enabling google sign in you need to define google.client-id, google.client-secret and google.callback-url",
			)
		}
	}
	if c.Server.Production && c.CORS != nil {
		for _, o := range c.CORS.AllowedOrigins {
			if strings.TrimSpace(o) == "*" && c.CORS.AllowCredentials {
				return errors.New("cors.allowed-origins may not contain * when credentials are allowed in production")
			}
		}
	}
	return nil
}

// DebugMode returns true if the SHOE_DEBUG_MODE variable is set
func (*Configuration) DebugMode() bool {
	if r := os.Getenv("SHOE_DEBUG_MODE"); r == "true" {
		return true
	}
	return false
}
