// Package appconfig binds a validated environment mapping to the typed
// settings object the application consumes.
package appconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the application's runtime configuration. Required variables use
// notEmpty so a blank value counts as absent, matching the validation sweep.
type Config struct {
	NodeEnv         string `env:"NODE_ENV,required,notEmpty"`
	AppEnv          string `env:"NEXT_PUBLIC_APP_ENV,required,notEmpty"`
	APIURL          string `env:"NEXT_PUBLIC_API_URL,required,notEmpty"`
	DatabaseURL     string `env:"DATABASE_URL,required,notEmpty"`
	AuthSecret      string `env:"NEXTAUTH_SECRET,required,notEmpty"`
	AuthURL         string `env:"NEXTAUTH_URL,required,notEmpty"`
	StripePublicKey string `env:"NEXT_PUBLIC_STRIPE_PUBLIC_KEY"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	AWSRegion       string `env:"AWS_REGION"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from an explicit environment mapping, never
// from ambient process state.
func Load(values map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: values}); err != nil {
		return nil, fmt.Errorf("parse app config: %w", err)
	}
	return &cfg, nil
}
