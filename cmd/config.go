package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envfile"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configResolveCmd)
	configCmd.AddCommand(configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Resolve environment-specific build configuration",
}

var configResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print build configuration JSON for the bundler",
	RunE:  runConfigResolve,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved build configuration",
	RunE:  runConfigShow,
}

func init() {
	configResolveCmd.Flags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	configResolveCmd.Flags().String("env-file", "", "path to env file")
	configShowCmd.Flags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	configShowCmd.Flags().String("env-file", "", "path to env file")
}

func runConfigResolve(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	cfg := buildcfg.Resolve(selectedEnvironment(cmd, values))

	out, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal build config: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	env := selectedEnvironment(cmd, values)
	cfg := buildcfg.Resolve(env)

	printHeader("Build Configuration")
	fmt.Println()
	printStatus(markInfo(), "environment", string(env))
	printStatus(markInfo(), "output_mode", string(cfg.OutputMode))
	printStatus(markInfo(), "image_domains", strings.Join(cfg.ImageDomains, ", "))

	if len(cfg.SecurityHeaders) == 0 {
		printStatus(markInfo(), "security_headers", "none")
		return nil
	}

	fmt.Println()
	printHeader("Security Headers")
	fmt.Println()
	for _, h := range cfg.SecurityHeaders {
		printStatus(markSuccess(), h.Name, h.Value)
	}
	return nil
}

// ─── shared env resolution ───────────────────────────────────────────

// envFilePath returns the env file a command should overlay, or "" when none
// applies. --env-file wins; otherwise .env.<environment> when --environment
// is set and the file exists.
func envFilePath(cmd *cobra.Command) (path string, explicit bool) {
	if f := cmd.Flags().Lookup("env-file"); f != nil && f.Value.String() != "" {
		return f.Value.String(), true
	}
	if f := cmd.Flags().Lookup("environment"); f != nil && f.Value.String() != "" {
		candidate := envfile.DefaultPath(f.Value.String())
		if st, statErr := os.Stat(candidate); statErr == nil && !st.IsDir() {
			return candidate, false
		}
	}
	return "", false
}

// resolveValues builds the effective environment for a command: the process
// environment, overlaid by the env file from envFilePath when one applies.
// File values take precedence.
func resolveValues(cmd *cobra.Command) (map[string]string, error) {
	values := envfile.FromProcess()

	path, explicit := envFilePath(cmd)
	if path == "" {
		return values, nil
	}

	fileValues, err := envfile.Load(path)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		log.WithError(err).WithField("path", path).Warn("skipping unreadable env file")
		return values, nil
	}
	return envfile.Merged(values, fileValues), nil
}

// rawEnvironment returns the discriminator before parsing: the --environment
// flag when set, otherwise NEXT_PUBLIC_APP_ENV from values.
func rawEnvironment(cmd *cobra.Command, values map[string]string) string {
	flagValue := ""
	if f := cmd.Flags().Lookup("environment"); f != nil {
		flagValue = f.Value.String()
	}
	raw, _ := lo.Coalesce(strings.TrimSpace(flagValue), strings.TrimSpace(values["NEXT_PUBLIC_APP_ENV"]))
	return raw
}

// selectedEnvironment parses the discriminator. Unrecognized or empty values
// resolve to the development profile, so a typo in NEXT_PUBLIC_APP_ENV can
// never fail a build outright.
func selectedEnvironment(cmd *cobra.Command, values map[string]string) buildcfg.Environment {
	raw := rawEnvironment(cmd, values)
	env, recognized := buildcfg.Parse(raw)
	if raw != "" && !recognized {
		log.WithField("value", raw).Warn("unrecognized environment, using development profile")
	}
	return env
}

// writeBuildConfig renders cfg as the build-config.json artifact read by the
// bundler config at build time.
func writeBuildConfig(path string, cfg buildcfg.Config) error {
	out, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	// json.MarshalIndent doesn't add a trailing newline.
	out = append(out, '\n')
	return os.WriteFile(path, out, 0o644)
}
