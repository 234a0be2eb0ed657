package oauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleCertsURL is the jwks endpoint for google id tokens
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = map[string]bool{
	"https://accounts.google.com": true,
	"accounts.google.com":         true,
}

var (
	// ErrMissingIDToken is returned when the token response carries no id_token
	ErrMissingIDToken = errors.New("token response contains no id_token")
	// ErrInvalidIDToken is returned when the id_token does not verify
	ErrInvalidIDToken = errors.New("invalid id_token")
)

// KeySource supplies the provider signing keys
type KeySource interface {
	Keys(ctx context.Context) (jwk.Set, error)
}

type cachedKeys struct {
	cache *jwk.Cache
	url   string
}

func (c *cachedKeys) Keys(ctx context.Context) (jwk.Set, error) {
	return c.cache.Get(ctx, c.url)
}

// NewCachedKeys registers the jwks url with an auto refreshing cache bound to ctx
func NewCachedKeys(ctx context.Context, url string) (KeySource, error) {
	c := jwk.NewCache(ctx)
	if err := c.Register(url, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register jwks: %w", err)
	}
	return &cachedKeys{cache: c, url: url}, nil
}

// StaticKeys is a fixed key set
type StaticKeys struct {
	Set jwk.Set
}

func (s StaticKeys) Keys(context.Context) (jwk.Set, error) {
	return s.Set, nil
}

// Google runs the authorization code flow against google and verifies the returned id token
type Google struct {
	log  *zap.Logger
	conf *oauth2.Config
	keys KeySource
	now  func() time.Time
}

// NewGoogle creates the google sign in
func NewGoogle(log *zap.Logger, cfg *config.GoogleConfiguration, keys KeySource) *Google {
	return &Google{
		log: log,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		keys: keys,
		now:  time.Now,
	}
}

// AuthCodeURL is the consent page the user is redirected to
func (g *Google) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange redeems the code and turns the verified id token into a profile
func (g *Google) Exchange(ctx context.Context, code string) (*account.ExternalProfile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, ErrMissingIDToken
	}
	return g.Verify(ctx, raw)
}

// Verify checks signature, audience, expiry and issuer of an id token
func (g *Google) Verify(ctx context.Context, idToken string) (*account.ExternalProfile, error) {
	set, err := g.keys.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch signing keys: %w", err)
	}
	tok, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithAudience(g.conf.ClientID),
		jwt.WithClock(jwt.ClockFunc(g.now)),
		jwt.WithAcceptableSkew(time.Minute),
	)
	if err != nil {
		g.log.Debug("id token rejected", zap.Error(err))
		return nil, ErrInvalidIDToken
	}
	if !googleIssuers[tok.Issuer()] {
		return nil, ErrInvalidIDToken
	}
	return &account.ExternalProfile{
		Provider:      db.AccountTypeGoogle,
		Subject:       tok.Subject(),
		Email:         stringClaim(tok, "email"),
		EmailVerified: boolClaim(tok, "email_verified"),
		FirstName:     stringClaim(tok, "given_name"),
		LastName:      stringClaim(tok, "family_name"),
		Picture:       stringClaim(tok, "picture"),
	}, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// google has sent email_verified both as bool and as string
func boolClaim(tok jwt.Token, name string) bool {
	v, ok := tok.Get(name)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}
