package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/buildcfg"
)

func newFlagCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("environment", "", "")
	cmd.Flags().String("env-file", "", "")
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set flag %s: %v", name, err)
		}
	}
	return cmd
}

func TestRawEnvironment_FlagWins(t *testing.T) {
	cmd := newFlagCmd(t, map[string]string{"environment": "production"})
	values := map[string]string{"NEXT_PUBLIC_APP_ENV": "staging"}

	if got := rawEnvironment(cmd, values); got != "production" {
		t.Errorf("rawEnvironment() = %q, want production", got)
	}
}

func TestRawEnvironment_FallsBackToValues(t *testing.T) {
	cmd := newFlagCmd(t, nil)
	values := map[string]string{"NEXT_PUBLIC_APP_ENV": "staging"}

	if got := rawEnvironment(cmd, values); got != "staging" {
		t.Errorf("rawEnvironment() = %q, want staging", got)
	}
}

func TestSelectedEnvironment_Unrecognized(t *testing.T) {
	cmd := newFlagCmd(t, map[string]string{"environment": "qa"})

	if got := selectedEnvironment(cmd, nil); got != buildcfg.Development {
		t.Errorf("selectedEnvironment(qa) = %q, want development", got)
	}
}

func TestSelectedEnvironment_Empty(t *testing.T) {
	cmd := newFlagCmd(t, nil)

	if got := selectedEnvironment(cmd, map[string]string{}); got != buildcfg.Development {
		t.Errorf("selectedEnvironment(empty) = %q, want development", got)
	}
}

func TestWriteBuildConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build-config.json")
	cfg := buildcfg.Resolve(buildcfg.Production)

	if err := writeBuildConfig(path, cfg); err != nil {
		t.Fatalf("writeBuildConfig() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	out := string(data)
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline in artifact")
	}
	if !strings.Contains(out, `"outputMode": "standalone"`) {
		t.Errorf("expected standalone output mode in artifact, got:\n%s", out)
	}
	if !strings.Contains(out, `"Strict-Transport-Security"`) {
		t.Errorf("expected security headers in artifact, got:\n%s", out)
	}
}

func TestResolveValues_EnvFileWins(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "ci.env")
	if err := os.WriteFile(envFile, []byte("NODE_ENV=production\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("NODE_ENV", "development")
	cmd := newFlagCmd(t, map[string]string{"env-file": envFile})

	values, err := resolveValues(cmd)
	if err != nil {
		t.Fatalf("resolveValues() error: %v", err)
	}
	if values["NODE_ENV"] != "production" {
		t.Errorf("NODE_ENV = %q, want file value production", values["NODE_ENV"])
	}
}

func TestResolveValues_MissingExplicitFile(t *testing.T) {
	cmd := newFlagCmd(t, map[string]string{"env-file": filepath.Join(t.TempDir(), "nope.env")})

	if _, err := resolveValues(cmd); err == nil {
		t.Fatal("expected error for missing --env-file")
	}
}

func TestResolveValues_ImplicitEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("NEXT_PUBLIC_API_URL=https://staging-api.yourapp.com\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cmd := newFlagCmd(t, map[string]string{"environment": "staging"})

	values, err := resolveValues(cmd)
	if err != nil {
		t.Fatalf("resolveValues() error: %v", err)
	}
	if got := values["NEXT_PUBLIC_API_URL"]; got != "https://staging-api.yourapp.com" {
		t.Errorf("NEXT_PUBLIC_API_URL = %q, want staging file value", got)
	}
}

func TestResolveValues_NoOverlay(t *testing.T) {
	t.Setenv("NEXTAUTH_URL", "http://localhost:3000")
	cmd := newFlagCmd(t, nil)

	values, err := resolveValues(cmd)
	if err != nil {
		t.Fatalf("resolveValues() error: %v", err)
	}
	if values["NEXTAUTH_URL"] != "http://localhost:3000" {
		t.Errorf("NEXTAUTH_URL = %q, want process value", values["NEXTAUTH_URL"])
	}
}
