package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/redwanhasan980/TaskManagement/mailer"
)

var ErrParsingConfig = errors.New("config.errors.parsing")

var defaultEnvLoaded sync.Once

// App is the full application configuration, loaded from the
// environment with an optional .env file for development.
type App struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":9090"`
	BaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:9090"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:taskmanagement.db?cache=shared&_pragma=foreign_keys(1)"`

	Auth   Auth          `envPrefix:""`
	Mailer mailer.Config `envPrefix:""`
}

// Auth carries the session token settings and implements the auth
// package's Config interface.
type Auth struct {
	SigningKey      string   `env:"JWT_SIGNING_KEY" envDefault:"dev-signing-key-change-me"`
	SigningMethod   string   `env:"JWT_SIGNING_METHOD" envDefault:"HS256"`
	ContextKey      string   `env:"JWT_CONTEXT_KEY" envDefault:"user"`
	TokenExpiration int      `env:"JWT_TOKEN_EXPIRATION_HOURS" envDefault:"24"`
	TokenLookup     string   `env:"JWT_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string   `env:"JWT_AUTH_SCHEME" envDefault:"Bearer"`
	Issuer          string   `env:"JWT_ISSUER" envDefault:"taskmanagement"`
	Audience        []string `env:"JWT_AUDIENCE" envDefault:"taskmanagement" envSeparator:","`
}

func (a Auth) GetSigningKey() string    { return a.SigningKey }
func (a Auth) GetSigningMethod() string { return a.SigningMethod }
func (a Auth) GetContextKey() string    { return a.ContextKey }
func (a Auth) GetTokenExpiration() int  { return a.TokenExpiration }
func (a Auth) GetTokenLookup() string   { return a.TokenLookup }
func (a Auth) GetAuthScheme() string    { return a.AuthScheme }
func (a Auth) GetIssuer() string        { return a.Issuer }
func (a Auth) GetAudience() []string    { return a.Audience }

// IsProduction reports whether the app runs with production settings.
func (c App) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the environment into cfg. The .env file is optional and
// only loaded once per process.
func Load(cfg *App) error {
	defaultEnvLoaded.Do(func() {
		// the .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}
