package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envcheck"
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	buildCmd.Flags().String("env-file", "", "path to env file")
	buildCmd.Flags().String("out", "build-config.json", "where to write the resolved build config")
	buildCmd.Flags().String("command", "npm run build", "bundler command to run")
	buildCmd.Flags().Bool("dry-run", false, "print commands without executing")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Validate env and build the app (npm run build)",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	appRoot, err := detectAppRoot()
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	outFile, _ := cmd.Flags().GetString("out")
	commandStr, _ := cmd.Flags().GetString("command")

	bundler := strings.Fields(commandStr)
	if len(bundler) == 0 {
		return fmt.Errorf("--command is empty")
	}

	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	env := selectedEnvironment(cmd, values)
	cfg := buildcfg.Resolve(env)

	// The bundler sees the discriminator it was asked for and
	// NODE_ENV=production, whatever the shell had.
	values["NEXT_PUBLIC_APP_ENV"] = string(env)
	values["NODE_ENV"] = "production"

	printHeader("Build App")
	fmt.Printf("app_root:    %s\n", appRoot)
	fmt.Printf("environment: %s\n", env)
	fmt.Printf("output_mode: %s\n", cfg.OutputMode)
	fmt.Printf("dry_run:     %v\n\n", dryRun)

	// The env gate runs even in dry-run.
	printStep(1, 3, "validate env")
	report := envcheck.Check(values)
	if !report.AllOK {
		for _, name := range report.Missing() {
			fmt.Fprintf(os.Stderr, "      %s missing %s\n", markFailure(), name)
		}
		return fmt.Errorf("build blocked, %d missing required variable(s)", len(report.Missing()))
	}
	set, _, _ := report.Counts()
	fmt.Printf("      %s %d variable(s) set\n", markSuccess(), set)

	outPath := filepath.Join(appRoot, outFile)
	printStep(2, 3, "write build config")
	if dryRun {
		fmt.Printf("      would write %s\n", outPath)
		fmt.Println("      [DRY] skipped")
	} else {
		if err := writeBuildConfig(outPath, cfg); err != nil {
			return fmt.Errorf("failed to write build config: %w", err)
		}
		fmt.Printf("      %s wrote %s\n", markSuccess(), outPath)
	}

	printStep(3, 3, commandStr)
	printCommand(bundler)

	if dryRun {
		fmt.Println("      [DRY] skipped")
	} else {
		if _, lookErr := exec.LookPath(bundler[0]); lookErr != nil {
			return fmt.Errorf("%s not found in PATH", bundler[0])
		}
		start := time.Now()
		c := exec.Command(bundler[0], bundler[1:]...)
		c.Dir = appRoot
		c.Env = environFromValues(values)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("%s failed: %w", commandStr, err)
		}
		printDuration(time.Since(start))
	}

	fmt.Println()
	printStatus(markSuccess(), "build", "complete")
	return nil
}
