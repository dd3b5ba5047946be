package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "envgate",
	Short:         "Deploy environment helper for yourapp",
	Long:          "envgate - deploy environment helper for yourapp (" + resolvedVersion() + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		printStyledHelp()
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: false,
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging on stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		configureLogging(verbose)
	}

	// Override help for root only; subcommands get cobra defaults.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == rootCmd {
			printStyledHelp()
		} else {
			// Use cobra's built-in help for subcommands.
			cmd.InitDefaultHelpFlag()
			cobra.CheckErr(cmd.UsageFunc()(cmd))
		}
	})
}

// configureLogging keeps diagnostics on stderr so command stdout stays
// machine-readable.
func configureLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize(ansiRed, "error: ")+err.Error())
		os.Exit(1)
	}
}

func printStyledHelp() {
	groups := []helpGroup{
		{
			title: "Setup",
			commands: []helpEntry{
				{"env init", "Write template .env files per environment"},
				{"doctor", "Pre-flight check (tools, files, env vars)"},
			},
		},
		{
			title: "Validation",
			commands: []helpEntry{
				{"validate env", "Confirm required env vars are set"},
				{"validate config", "Validate the resolved build configuration"},
				{"validate secrets", "Check secrets-handling conventions"},
			},
		},
		{
			title: "Configuration",
			commands: []helpEntry{
				{"config resolve", "Print build configuration JSON for the bundler"},
				{"config show", "Show the resolved build configuration"},
				{"env show", "Display effective env values (secrets masked)"},
				{"env diff", "Diff two env files (secrets masked)"},
			},
		},
		{
			title: "Build & Run",
			commands: []helpEntry{
				{"build", "Validate, write build config, run the bundler"},
				{"run dev", "Start the dev server with hot reload"},
				{"run start", "Serve the compiled production build"},
				{"run lint", "Run the linter"},
				{"run test", "Run the test suite"},
				{"clean", "Show or remove build artifacts"},
			},
		},
		{
			title: "Service",
			commands: []helpEntry{
				{"service start", "Start the dev server in the background"},
				{"service stop", "Stop the background dev server"},
				{"service status", "Show dev server status"},
			},
		},
		{
			title: "Other",
			commands: []helpEntry{
				{"version", "Print CLI version and build metadata"},
				{"completion", "Generate shell completions"},
			},
		},
	}

	fmt.Printf("envgate - deploy environment helper for yourapp (%s)\n", resolvedVersion())
	printGroupedHelp(groups)

	fmt.Println(headerText("Quick Start"))
	fmt.Println("  envgate env init --environment development")
	fmt.Println("  envgate validate env --env-file .env.development")
	fmt.Println("  envgate doctor")
	fmt.Println()
}
