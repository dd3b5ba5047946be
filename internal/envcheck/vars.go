// SPDX-License-Identifier: MIT
// Copyright (c) 2026, The envgate authors.

// Package envcheck validates an environment mapping against the variable
// contract the application is deployed with.
package envcheck

import "strings"

// Var describes one variable in the environment contract.
type Var struct {
	Name     string
	Required bool
	// Secret values are never echoed or diffed in clear.
	Secret bool
	Desc   string
}

// Catalog is the full contract in report order: required variables first.
var Catalog = []Var{
	{Name: "NODE_ENV", Required: true, Desc: "Node runtime mode"},
	{Name: "NEXT_PUBLIC_APP_ENV", Required: true, Desc: "deploy environment discriminator"},
	{Name: "NEXT_PUBLIC_API_URL", Required: true, Desc: "base URL of the backend API"},
	{Name: "DATABASE_URL", Required: true, Secret: true, Desc: "database connection string"},
	{Name: "NEXTAUTH_SECRET", Required: true, Secret: true, Desc: "session token signing secret"},
	{Name: "NEXTAUTH_URL", Required: true, Desc: "canonical URL for auth callbacks"},
	{Name: "NEXT_PUBLIC_STRIPE_PUBLIC_KEY", Desc: "Stripe publishable key"},
	{Name: "STRIPE_SECRET_KEY", Secret: true, Desc: "Stripe API secret"},
	{Name: "AWS_REGION", Desc: "region for AWS-backed features"},
	{Name: "LOG_LEVEL", Desc: "application log verbosity"},
}

// RequiredNames returns the required variable names in report order.
func RequiredNames() []string {
	out := make([]string, 0, len(Catalog))
	for _, v := range Catalog {
		if v.Required {
			out = append(out, v.Name)
		}
	}
	return out
}

// OptionalNames returns the optional variable names in report order.
func OptionalNames() []string {
	out := make([]string, 0, len(Catalog))
	for _, v := range Catalog {
		if !v.Required {
			out = append(out, v.Name)
		}
	}
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Var, bool) {
	for _, v := range Catalog {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}

// SecretName reports whether a variable should be treated as a secret.
// Catalog entries answer for themselves; names outside the catalog are
// classified by convention. NEXT_PUBLIC_ values are exposed to the browser
// and are public no matter what the rest of the name says.
func SecretName(name string) bool {
	if v, ok := Lookup(name); ok {
		return v.Secret
	}
	upper := strings.ToUpper(name)
	if strings.HasPrefix(upper, "NEXT_PUBLIC_") {
		return false
	}
	for _, marker := range []string{"SECRET", "TOKEN", "PASSWORD", "PRIVATE_KEY", "_KEY"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
