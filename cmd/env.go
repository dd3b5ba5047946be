package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envcheck"
	"github.com/envgate/envgate/internal/envfile"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envInitCmd)
	envCmd.AddCommand(envShowCmd)
	envCmd.AddCommand(envDiffCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Create and inspect dotenv files",
}

// --- env init ---

var envInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a .env.<environment> template",
	RunE:  runEnvInit,
}

func init() {
	envInitCmd.Flags().String("environment", "", "environment to generate a file for")
	envInitCmd.Flags().Bool("all", false, "generate files for every environment")
	envInitCmd.Flags().String("dir", ".", "directory to write env files into")
	envInitCmd.Flags().Bool("force", false, "overwrite env files that already exist")
}

func runEnvInit(cmd *cobra.Command, args []string) error {
	environment, _ := cmd.Flags().GetString("environment")
	all, _ := cmd.Flags().GetBool("all")
	dir, _ := cmd.Flags().GetString("dir")
	force, _ := cmd.Flags().GetBool("force")

	var targets []buildcfg.Environment
	switch {
	case all:
		targets = buildcfg.Environments
	case strings.TrimSpace(environment) == "":
		return errors.New("missing --environment (or use --all)")
	default:
		env, ok := buildcfg.Parse(environment)
		if !ok {
			return fmt.Errorf("unknown environment %q; expected one of: %s", environment, joinEnvironments())
		}
		targets = []buildcfg.Environment{env}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}

	var written []string
	for _, env := range targets {
		path := filepath.Join(dir, envfile.DefaultPath(string(env)))
		if !force && pathExists(path) {
			return fmt.Errorf("env file already exists: %s (use --force to overwrite)", path)
		}
		// Secrets go in these files, keep them owner-only.
		if err := os.WriteFile(path, []byte(envfile.Generate(env)), 0o600); err != nil {
			return fmt.Errorf("failed to write env file: %w", err)
		}
		printStatus(markSuccess(), "env_file", path)
		written = append(written, path)
	}

	fmt.Println("")
	fmt.Println("next:")
	fmt.Println("  fill in the blank secret values")
	fmt.Printf("  envgate validate env --env-file %s\n", written[0])
	return nil
}

// --- env show ---

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display effective env values with secrets masked",
	RunE:  runEnvShow,
}

func init() {
	envShowCmd.Flags().String("environment", "", "environment whose file to overlay")
	envShowCmd.Flags().String("env-file", "", "path to env file")
}

func runEnvShow(cmd *cobra.Command, args []string) error {
	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	if path, _ := envFilePath(cmd); path != "" {
		fmt.Printf("env_file: %s\n\n", path)
	}

	for _, v := range envcheck.Catalog {
		value := strings.TrimSpace(values[v.Name])
		if value == "" {
			printStatus(markWarning(), v.Name, "not set")
			continue
		}
		printStatus(markSuccess(), v.Name, maskValue(v.Name, value))
	}
	return nil
}

// maskValue hides secret values behind their fingerprint so show output is
// safe to paste into an issue or a CI log.
func maskValue(name, value string) string {
	if envcheck.SecretName(name) {
		return "set (" + envfile.Fingerprint(value) + ")"
	}
	return value
}

// --- env diff ---

var envDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Diff two env files with secrets masked",
	Long: `Diff two env files with secret values replaced by fingerprints.

Each argument is an environment name (development, staging, production) or a
path to an env file. Environment names resolve to .env.<name> in the current
directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runEnvDiff,
}

func init() {
	envDiffCmd.Flags().Bool("exit-code", false, "exit non-zero when the files differ")
}

func runEnvDiff(cmd *cobra.Command, args []string) error {
	exitCode, _ := cmd.Flags().GetBool("exit-code")

	pathA, err := diffTargetPath(args[0])
	if err != nil {
		return err
	}
	pathB, err := diffTargetPath(args[1])
	if err != nil {
		return err
	}

	a, err := envfile.Load(pathA)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", pathA, err)
	}
	b, err := envfile.Load(pathB)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", pathB, err)
	}

	diff, err := envfile.Diff(pathA, pathB, a, b)
	if err != nil {
		return fmt.Errorf("failed to diff env files: %w", err)
	}

	if diff == "" {
		fmt.Println("no differences")
		return nil
	}

	fmt.Print(diff)
	if exitCode {
		return errors.New("env files differ")
	}
	return nil
}

func diffTargetPath(arg string) (string, error) {
	if env, ok := buildcfg.Parse(arg); ok {
		return envfile.DefaultPath(string(env)), nil
	}
	if pathExists(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("no such environment or file: %s", arg)
}

// --- helpers ---

func joinEnvironments() string {
	names := make([]string, len(buildcfg.Environments))
	for i, e := range buildcfg.Environments {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// detectAppRoot walks up from the working directory looking for the
// package.json that marks the app checkout.
func detectAppRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	candidates := []string{
		wd,
		filepath.Dir(wd),
		filepath.Dir(filepath.Dir(wd)),
	}
	for _, c := range candidates {
		if c == "" || c == "." || c == "/" {
			continue
		}
		if hasAppMarkers(c) {
			return c, nil
		}
	}

	return "", errors.New("could not find package.json in this or a parent directory")
}

func hasAppMarkers(path string) bool {
	st, err := os.Stat(filepath.Join(path, "package.json"))
	return err == nil && !st.IsDir()
}

func confirmProceed(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes"
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
