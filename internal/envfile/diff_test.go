package envfile

import (
	"strings"
	"testing"
)

func TestDiff_Identical(t *testing.T) {
	values := map[string]string{
		"NODE_ENV":        "production",
		"NEXTAUTH_SECRET": "0123456789abcdef0123456789abcdef",
	}

	out, err := Diff(".env.a", ".env.b", values, values)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected empty diff for identical maps, got:\n%s", out)
	}
}

func TestDiff_UnifiedFormat(t *testing.T) {
	a := map[string]string{
		"NODE_ENV":            "development",
		"NEXT_PUBLIC_APP_ENV": "development",
	}
	b := map[string]string{
		"NODE_ENV":            "production",
		"NEXT_PUBLIC_APP_ENV": "staging",
	}

	out, err := Diff(".env.development", ".env.staging", a, b)
	if err != nil {
		t.Fatal(err)
	}

	want := "--- .env.development\n" +
		"+++ .env.staging\n" +
		"@@ -1,2 +1,2 @@\n" +
		"-NODE_ENV=development\n" +
		"-NEXT_PUBLIC_APP_ENV=development\n" +
		"+NODE_ENV=production\n" +
		"+NEXT_PUBLIC_APP_ENV=staging\n"
	if out != want {
		t.Errorf("diff output:\n%s\nwant:\n%s", out, want)
	}
}

func TestDiff_MasksSecrets(t *testing.T) {
	a := map[string]string{"DATABASE_URL": "postgres://app:oldpw@db:5432/app"}
	b := map[string]string{"DATABASE_URL": "postgres://app:newpw@db:5432/app"}

	out, err := Diff(".env.a", ".env.b", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Fatal("expected a diff for changed secret values")
	}
	if strings.Contains(out, "oldpw") || strings.Contains(out, "newpw") {
		t.Errorf("diff leaked a secret value:\n%s", out)
	}
	if !strings.Contains(out, "sha256:") {
		t.Errorf("expected fingerprinted secret in diff:\n%s", out)
	}
}

func TestDiff_AddedVariable(t *testing.T) {
	a := map[string]string{"NODE_ENV": "production"}
	b := map[string]string{"NODE_ENV": "production", "AWS_REGION": "eu-west-1"}

	out, err := Diff(".env.a", ".env.b", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "+AWS_REGION=eu-west-1") {
		t.Errorf("expected added variable in diff:\n%s", out)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("value")
	b := Fingerprint("value")
	if a != b {
		t.Errorf("Fingerprint not stable: %q vs %q", a, b)
	}
	if Fingerprint("other") == a {
		t.Error("different values produced the same fingerprint")
	}
	if !strings.HasPrefix(a, "sha256:") {
		t.Errorf("Fingerprint = %q, want sha256: prefix", a)
	}
}
