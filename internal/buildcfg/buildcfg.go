// Package buildcfg resolves the environment-specific build configuration
// consumed by the application bundler.
package buildcfg

import "strings"

// Environment is the deploy environment discriminator carried in
// NEXT_PUBLIC_APP_ENV.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Environments lists the recognized deploy environments.
var Environments = []Environment{Development, Staging, Production}

// Parse maps a raw discriminator value onto the recognized set. Matching is
// exact after trimming. Unrecognized or empty input falls back to
// Development; the second return reports whether the input was recognized.
func Parse(raw string) (Environment, bool) {
	switch Environment(strings.TrimSpace(raw)) {
	case Development:
		return Development, true
	case Staging:
		return Staging, true
	case Production:
		return Production, true
	}
	return Development, false
}

// OutputMode selects how the bundler packages the application.
type OutputMode string

const (
	OutputStandard   OutputMode = "standard"
	OutputStandalone OutputMode = "standalone"
)

// Header is one HTTP response header the production server applies.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Config is the build configuration handed to the bundler.
type Config struct {
	OutputMode      OutputMode `json:"outputMode"`
	ImageDomains    []string   `json:"imageDomains"`
	SecurityHeaders []Header   `json:"securityHeaders"`
}

// productionHeaders returns the hardening headers in application order.
// The set and its order are part of the deploy contract; do not reorder.
func productionHeaders() []Header {
	return []Header{
		{Name: "X-DNS-Prefetch-Control", Value: "on"},
		{Name: "Strict-Transport-Security", Value: "max-age=63072000; includeSubDomains; preload"},
		{Name: "X-Content-Type-Options", Value: "nosniff"},
		{Name: "X-Frame-Options", Value: "DENY"},
	}
}

// Resolve returns the build configuration for env. Production gets the
// standalone bundle, the public image hosts, and the hardening headers.
// Every other environment gets the development profile: standard output,
// local image host, no extra headers.
func Resolve(env Environment) Config {
	if env == Production {
		return Config{
			OutputMode:      OutputStandalone,
			ImageDomains:    []string{"yourapp.com", "cdn.yourapp.com"},
			SecurityHeaders: productionHeaders(),
		}
	}
	return Config{
		OutputMode:      OutputStandard,
		ImageDomains:    []string{"localhost"},
		SecurityHeaders: []Header{},
	}
}
