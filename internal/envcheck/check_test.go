package envcheck

import (
	"reflect"
	"testing"
)

func completeEnv() map[string]string {
	return map[string]string{
		"NODE_ENV":            "production",
		"NEXT_PUBLIC_APP_ENV": "staging",
		"NEXT_PUBLIC_API_URL": "https://api.staging.yourapp.com",
		"DATABASE_URL":        "postgres://app:pw@db.internal:5432/yourapp",
		"NEXTAUTH_SECRET":     "0123456789abcdef0123456789abcdef",
		"NEXTAUTH_URL":        "https://staging.yourapp.com",
	}
}

func TestCheck_AllRequiredPresent(t *testing.T) {
	rep := Check(completeEnv())
	if !rep.AllOK {
		t.Errorf("expected AllOK with all required variables set, missing: %v", rep.Missing())
	}
	if len(rep.Missing()) != 0 {
		t.Errorf("Missing() = %v, want none", rep.Missing())
	}
}

func TestCheck_EmptyEnvironment(t *testing.T) {
	rep := Check(nil)
	if rep.AllOK {
		t.Error("expected AllOK = false for an empty environment")
	}

	missing := rep.Missing()
	if !reflect.DeepEqual(missing, RequiredNames()) {
		t.Errorf("Missing() = %v, want %v", missing, RequiredNames())
	}

	set, miss, notSet := rep.Counts()
	if set != 0 || miss != len(RequiredNames()) || notSet != len(OptionalNames()) {
		t.Errorf("Counts() = (%d, %d, %d), want (0, %d, %d)",
			set, miss, notSet, len(RequiredNames()), len(OptionalNames()))
	}
}

func TestCheck_AggregatesAllMissing(t *testing.T) {
	values := completeEnv()
	delete(values, "NODE_ENV")
	delete(values, "NEXTAUTH_URL")

	rep := Check(values)
	missing := rep.Missing()
	if len(missing) != 2 {
		t.Fatalf("expected both missing variables reported, got %v", missing)
	}
	if missing[0] != "NODE_ENV" || missing[1] != "NEXTAUTH_URL" {
		t.Errorf("Missing() = %v, want [NODE_ENV NEXTAUTH_URL]", missing)
	}
}

func TestCheck_WhitespaceCountsAsMissing(t *testing.T) {
	values := completeEnv()
	values["DATABASE_URL"] = "   "

	rep := Check(values)
	if rep.AllOK {
		t.Error("expected whitespace-only value to count as missing")
	}
	if got := rep.Missing(); len(got) != 1 || got[0] != "DATABASE_URL" {
		t.Errorf("Missing() = %v, want [DATABASE_URL]", got)
	}
}

func TestCheck_OptionalNeverFails(t *testing.T) {
	rep := Check(completeEnv())
	if !rep.AllOK {
		t.Fatal("expected AllOK with only optional variables absent")
	}

	for _, e := range rep.Entries {
		if !e.Required && e.Status != StatusNotSet {
			t.Errorf("%s: status = %q, want %q", e.Name, e.Status, StatusNotSet)
		}
	}

	values := completeEnv()
	values["LOG_LEVEL"] = "debug"
	rep = Check(values)
	for _, e := range rep.Entries {
		if e.Name == "LOG_LEVEL" && e.Status != StatusSet {
			t.Errorf("LOG_LEVEL: status = %q, want %q", e.Status, StatusSet)
		}
	}
}

func TestCheck_ReportOrderMatchesCatalog(t *testing.T) {
	rep := Check(completeEnv())
	if len(rep.Entries) != len(Catalog) {
		t.Fatalf("report has %d entries, want one per catalog variable (%d)",
			len(rep.Entries), len(Catalog))
	}
	for i, e := range rep.Entries {
		if e.Name != Catalog[i].Name {
			t.Errorf("entry %d = %q, want %q", i, e.Name, Catalog[i].Name)
		}
	}
}

func TestCheck_Deterministic(t *testing.T) {
	values := completeEnv()
	values["LOG_LEVEL"] = "warn"

	first := Check(values)
	second := Check(values)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical reports for identical input")
	}
}
