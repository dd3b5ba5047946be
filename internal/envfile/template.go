package envfile

import (
	"fmt"
	"strings"

	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envcheck"
)

// DefaultPath returns the conventional file name for an environment name.
func DefaultPath(env string) string {
	return ".env." + env
}

// templateValues returns per-environment starting values for the non-secret
// required variables. Staging and production builds both run the Node
// runtime in production mode; only the discriminator and URLs differ.
func templateValues(env buildcfg.Environment) map[string]string {
	switch env {
	case buildcfg.Production:
		return map[string]string{
			"NODE_ENV":            "production",
			"NEXT_PUBLIC_APP_ENV": "production",
			"NEXT_PUBLIC_API_URL": "https://api.yourapp.com",
			"NEXTAUTH_URL":        "https://yourapp.com",
		}
	case buildcfg.Staging:
		return map[string]string{
			"NODE_ENV":            "production",
			"NEXT_PUBLIC_APP_ENV": "staging",
			"NEXT_PUBLIC_API_URL": "https://api.staging.yourapp.com",
			"NEXTAUTH_URL":        "https://staging.yourapp.com",
		}
	default:
		return map[string]string{
			"NODE_ENV":            "development",
			"NEXT_PUBLIC_APP_ENV": "development",
			"NEXT_PUBLIC_API_URL": "http://localhost:4000",
			"NEXTAUTH_URL":        "http://localhost:3000",
		}
	}
}

// optionalExamples holds commented suggestions for the optional variables.
var optionalExamples = map[string]string{
	"NEXT_PUBLIC_STRIPE_PUBLIC_KEY": "pk_test_replace_me",
	"STRIPE_SECRET_KEY":             "sk_test_replace_me",
	"AWS_REGION":                    "us-east-1",
	"LOG_LEVEL":                     "info",
}

// Generate renders the template env file for env. Secrets are left blank so
// the generated file is safe to commit as a starting point; real values are
// filled in locally or injected by the deploy pipeline.
func Generate(env buildcfg.Environment) string {
	values := templateValues(env)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s environment for yourapp\n", env)
	b.WriteString("# generated by envgate env init; fill in secrets locally, never commit them\n")
	b.WriteString("\n")

	for _, name := range envcheck.RequiredNames() {
		fmt.Fprintf(&b, "%s=%s\n", name, values[name])
	}

	b.WriteString("\n")
	b.WriteString("# optional\n")
	for _, name := range envcheck.OptionalNames() {
		fmt.Fprintf(&b, "#%s=%s\n", name, optionalExamples[name])
	}

	return b.String()
}
