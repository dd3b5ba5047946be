package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/envgate/envgate/internal/buildcfg"
)

func TestLoad_Basic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")

	content := `# deployment values
export NODE_ENV="production"
NEXT_PUBLIC_APP_ENV=staging
export NEXTAUTH_URL='https://staging.yourapp.com'
DATABASE_URL="postgres://app:pw@db.internal:5432/yourapp"

# another comment
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	values, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"NODE_ENV":            "production",
		"NEXT_PUBLIC_APP_ENV": "staging",
		"NEXTAUTH_URL":        "https://staging.yourapp.com",
		"DATABASE_URL":        "postgres://app:pw@db.internal:5432/yourapp",
	}
	for key, want := range tests {
		if got := values[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/env")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromProcess(t *testing.T) {
	t.Setenv("ENVGATE_TEST_VAR", "present")

	values := FromProcess()
	if values["ENVGATE_TEST_VAR"] != "present" {
		t.Errorf("ENVGATE_TEST_VAR = %q, want %q", values["ENVGATE_TEST_VAR"], "present")
	}
}

func TestMerged_OverlayWins(t *testing.T) {
	base := map[string]string{"NODE_ENV": "development", "LOG_LEVEL": "info"}
	overlay := map[string]string{"NODE_ENV": "production"}

	merged := Merged(base, overlay)
	if merged["NODE_ENV"] != "production" {
		t.Errorf("NODE_ENV = %q, want overlay value", merged["NODE_ENV"])
	}
	if merged["LOG_LEVEL"] != "info" {
		t.Errorf("LOG_LEVEL = %q, want base value", merged["LOG_LEVEL"])
	}
	if base["NODE_ENV"] != "development" {
		t.Error("Merged must not mutate the base map")
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	nodeEnv := map[buildcfg.Environment]string{
		buildcfg.Development: "development",
		buildcfg.Staging:     "production",
		buildcfg.Production:  "production",
	}

	for _, env := range buildcfg.Environments {
		path := filepath.Join(dir, DefaultPath(string(env)))
		if err := os.WriteFile(path, []byte(Generate(env)), 0o600); err != nil {
			t.Fatal(err)
		}

		values, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", env, err)
		}

		if got := values["NEXT_PUBLIC_APP_ENV"]; got != string(env) {
			t.Errorf("%s: NEXT_PUBLIC_APP_ENV = %q, want %q", env, got, env)
		}
		if got := values["NODE_ENV"]; got != nodeEnv[env] {
			t.Errorf("%s: NODE_ENV = %q, want %q", env, got, nodeEnv[env])
		}

		// secrets are present but blank
		if got, ok := values["NEXTAUTH_SECRET"]; !ok || got != "" {
			t.Errorf("%s: NEXTAUTH_SECRET = %q (present %v), want blank", env, got, ok)
		}

		// optional variables stay commented out
		if _, ok := values["LOG_LEVEL"]; ok {
			t.Errorf("%s: LOG_LEVEL should be commented out in the template", env)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath("staging"); got != ".env.staging" {
		t.Errorf("DefaultPath(staging) = %q, want .env.staging", got)
	}
}
