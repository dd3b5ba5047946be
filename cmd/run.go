package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/envcheck"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.PersistentFlags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	runCmd.PersistentFlags().String("env-file", "", "path to env file")
	runCmd.PersistentFlags().Bool("dry-run", false, "print the command instead of executing")

	runCmd.AddCommand(runListCmd)

	// Register a subcommand per task.
	for _, task := range appTasks {
		task := task
		c := &cobra.Command{
			Use:   task.id,
			Short: task.description,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAppTask(cmd, task)
			},
		}
		runCmd.AddCommand(c)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run app tasks (dev, start, lint, test)",
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show available tasks",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("Tasks")
		fmt.Println("Use: envgate run <task> [--dry-run]")
		fmt.Println()
		for _, t := range appTasks {
			printStatus(markInfo(), t.id, t.description)
		}
		fmt.Println()
	},
}

func runAppTask(cmd *cobra.Command, task appTask) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	appRoot, err := detectAppRoot()
	if err != nil {
		return err
	}

	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	if task.requiresEnv {
		report := envcheck.Check(values)
		if !report.AllOK {
			for _, name := range report.Missing() {
				printStatus(markFailure(), name, "missing")
			}
			return fmt.Errorf("task %s blocked, %d missing required variable(s)", task.id, len(report.Missing()))
		}
	}

	return runTaskSteps(task, appRoot, taskEnvironment(values, task), dryRun)
}
