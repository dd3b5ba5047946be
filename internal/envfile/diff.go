package envfile

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/envgate/envgate/internal/envcheck"
)

// Fingerprint returns a short stable digest of a secret value, so output can
// show that a secret is set or has changed without revealing it.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return fmt.Sprintf("sha256:%x", sum[:4])
}

// renderMasked produces canonical KEY=value lines for diffing: catalog
// variables first in contract order, then unknown keys sorted, with secret
// values replaced by fingerprints.
func renderMasked(values map[string]string) []string {
	lines := make([]string, 0, len(values))
	emitted := make(map[string]bool, len(values))

	emit := func(name string) {
		value, ok := values[name]
		if !ok {
			return
		}
		emitted[name] = true
		if value != "" && envcheck.SecretName(name) {
			value = Fingerprint(value)
		}
		lines = append(lines, name+"="+value)
	}

	for _, v := range envcheck.Catalog {
		emit(v.Name)
	}

	extras := make([]string, 0, len(values))
	for name := range values {
		if !emitted[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		emit(name)
	}

	return lines
}

// Diff renders a unified diff between two environment maps, with secret
// values fingerprinted on both sides. An empty string means no differences.
func Diff(labelA, labelB string, a, b map[string]string) (string, error) {
	// SplitLines terminates the final line itself; a trailing newline here
	// would show up as a phantom context line in every hunk.
	textA := strings.Join(renderMasked(a), "\n")
	textB := strings.Join(renderMasked(b), "\n")
	if textA == textB {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(textA),
		B:        difflib.SplitLines(textB),
		FromFile: labelA,
		ToFile:   labelB,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("render env diff: %w", err)
	}
	return out, nil
}
