package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/appconfig"
	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envcheck"
	"github.com/envgate/envgate/internal/envfile"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateEnvCmd)
	validateCmd.AddCommand(validateConfigCmd)
	validateCmd.AddCommand(validateSecretsCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment, build config, or secret hygiene",
}

// --- validate env ---

var validateEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Confirm required env vars are set",
	RunE:  runValidateEnv,
}

func init() {
	validateEnvCmd.Flags().String("env-file", "", "path to env file")
}

func runValidateEnv(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	report := envcheck.Check(values)
	for _, entry := range report.Entries {
		fmt.Printf("%s %s: %s\n", statusMark(entry.Status), entry.Name, entry.Status)
	}

	fmt.Println("")
	fmt.Printf("environment: NEXT_PUBLIC_APP_ENV=%s NODE_ENV=%s\n",
		orNotSet(values["NEXT_PUBLIC_APP_ENV"]), orNotSet(values["NODE_ENV"]))

	if !report.AllOK {
		missing := report.Missing()
		fmt.Println("")
		fmt.Println("env validate failed")
		fmt.Println("next:")
		fmt.Println("  envgate env init --environment development")
		return fmt.Errorf("env validate found %d missing required variable(s)", len(missing))
	}

	fmt.Println("")
	fmt.Println("env validate passed")
	return nil
}

func statusMark(status envcheck.Status) string {
	switch status {
	case envcheck.StatusMissing:
		return markFailure()
	case envcheck.StatusNotSet:
		return markWarning()
	default:
		return markSuccess()
	}
}

func orNotSet(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not set)"
	}
	return v
}

// --- validate config ---

var validateConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate the resolved build configuration",
	RunE:  runValidateConfig,
}

func init() {
	validateConfigCmd.Flags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	validateConfigCmd.Flags().String("env-file", "", "path to env file")
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	failures := 0

	raw := rawEnvironment(cmd, values)
	env, recognized := buildcfg.Parse(raw)
	switch {
	case raw == "":
		printStatus(markWarning(), "environment", "not set, using development profile")
	case recognized:
		printStatus(markSuccess(), "environment", string(env))
	default:
		printStatus(markWarning(), "environment", fmt.Sprintf("unrecognized %q, using development profile", raw))
	}

	cfg := buildcfg.Resolve(env)
	printStatus(markInfo(), "output_mode", string(cfg.OutputMode))
	printStatus(markInfo(), "image_domains", strings.Join(cfg.ImageDomains, ", "))
	printStatus(markInfo(), "security_headers", fmt.Sprintf("%d", len(cfg.SecurityHeaders)))

	nodeEnv := strings.TrimSpace(values["NODE_ENV"])
	if env == buildcfg.Production && nodeEnv != "production" {
		printStatus(markFailure(), "NODE_ENV", "must be production for a production build, got "+orNotSet(nodeEnv))
		failures++
	} else if nodeEnv != "" {
		printStatus(markSuccess(), "NODE_ENV", nodeEnv)
	}

	for _, key := range []string{"NEXT_PUBLIC_API_URL", "NEXTAUTH_URL"} {
		val := strings.TrimSpace(values[key])
		if val == "" {
			continue
		}
		u, parseErr := url.Parse(val)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			printStatus(markFailure(), key, "not an absolute URL: "+val)
			failures++
			continue
		}
		if env == buildcfg.Production && u.Scheme != "https" {
			printStatus(markWarning(), key, "not https: "+val)
		} else {
			printStatus(markSuccess(), key, val)
		}
	}

	// The typed load only makes sense once the required set is complete;
	// reporting the gaps is validate env's job.
	report := envcheck.Check(values)
	if !report.AllOK {
		printStatus(markWarning(), "config:typed", fmt.Sprintf("skipped, %d required variable(s) missing", len(report.Missing())))
	} else if _, loadErr := appconfig.Load(values); loadErr != nil {
		printStatus(markFailure(), "config:typed", loadErr.Error())
		failures++
	} else {
		printStatus(markSuccess(), "config:typed", "loads")
	}

	if failures > 0 {
		return fmt.Errorf("config validate found %d issue(s)", failures)
	}

	fmt.Println("\nconfig validate passed")
	return nil
}

// --- validate secrets ---

var validateSecretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Check secret hygiene before committing or deploying",
	RunE:  runValidateSecrets,
}

func init() {
	validateSecretsCmd.Flags().String("env-file", "", "path to env file")
}

func runValidateSecrets(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	failures := 0

	covered, gitignoreErr := gitignoreCoversEnv(".")
	switch {
	case gitignoreErr != nil:
		printStatus(markWarning(), "gitignore", gitignoreErr.Error())
	case covered:
		printStatus(markSuccess(), "gitignore", ".env files are ignored")
	default:
		printStatus(markFailure(), "gitignore", ".env files are not ignored")
		failures++
	}

	for _, name := range leakedSecrets(values) {
		printStatus(markFailure(), name, "value is exposed via a NEXT_PUBLIC_ variable")
		failures++
	}

	if secret := values["NEXTAUTH_SECRET"]; strings.TrimSpace(secret) != "" {
		if len(secret) < 32 {
			printStatus(markWarning(), "NEXTAUTH_SECRET", fmt.Sprintf("only %d chars, want 32+", len(secret)))
		} else {
			printStatus(markSuccess(), "NEXTAUTH_SECRET", fmt.Sprintf("%d chars (%s)", len(secret), envfile.Fingerprint(secret)))
		}
	}

	if failures > 0 {
		return fmt.Errorf("secrets validate found %d issue(s)", failures)
	}

	fmt.Println("\nsecrets validate passed")
	return nil
}

// gitignoreCoversEnv reports whether dir's .gitignore has a pattern that
// keeps dotenv files out of version control.
func gitignoreCoversEnv(dir string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("no .gitignore found")
		}
		return false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, ".env") || strings.HasPrefix(line, "*.env") {
			return true, nil
		}
	}
	return false, nil
}

// leakedSecrets returns names of secret variables whose exact value also
// appears under a NEXT_PUBLIC_ name. NEXT_PUBLIC_ values are inlined into
// the client bundle.
func leakedSecrets(values map[string]string) []string {
	public := map[string]bool{}
	for name, val := range values {
		if strings.HasPrefix(name, "NEXT_PUBLIC_") && strings.TrimSpace(val) != "" {
			public[val] = true
		}
	}

	var leaked []string
	for _, v := range envcheck.Catalog {
		if !v.Secret {
			continue
		}
		val := values[v.Name]
		if strings.TrimSpace(val) == "" {
			continue
		}
		if public[val] {
			leaked = append(leaked, v.Name)
		}
	}
	sort.Strings(leaked)
	return leaked
}
