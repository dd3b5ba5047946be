package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type cleanTarget struct {
	id          string
	description string
	// paths returns the directories to remove, expanded at runtime so the
	// detected app root and $HOME are honoured.
	paths func() []string
}

func buildCleanTargets(appRoot string) []cleanTarget {
	home, _ := os.UserHomeDir()

	return []cleanTarget{
		{
			id:          "next",
			description: "Next build output (.next, build-config.json)",
			paths: func() []string {
				return []string{
					filepath.Join(appRoot, ".next"),
					filepath.Join(appRoot, "build-config.json"),
				}
			},
		},
		{
			id:          "out",
			description: "Static export and standalone output (out)",
			paths: func() []string {
				return []string{filepath.Join(appRoot, "out")}
			},
		},
		{
			id:          "modules",
			description: "Installed npm dependencies (node_modules)",
			paths: func() []string {
				return []string{filepath.Join(appRoot, "node_modules")}
			},
		},
		{
			id:          "coverage",
			description: "Test coverage reports (coverage)",
			paths: func() []string {
				return []string{filepath.Join(appRoot, "coverage")}
			},
		},
		{
			id:          "logs",
			description: "Dev server logs and PID files (~/.envgate)",
			paths: func() []string {
				return []string{
					filepath.Join(home, ".envgate", "log"),
					filepath.Join(home, ".envgate", "run"),
				}
			},
		},
	}
}

func init() {
	cleanCmd := &cobra.Command{
		Use:   "clean [target...]",
		Short: "Remove build artifacts and caches",
		Long: `Remove artifacts left behind by builds and the dev server.

Without arguments, lists what can be cleaned and how much space each uses.
With target names, removes those targets.

Targets: next, out, modules, coverage, logs, all

Flags:
  --yes   Skip confirmation prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			yes, _ := cmd.Flags().GetBool("yes")

			if len(args) == 0 {
				return runCleanList()
			}
			return runClean(args, dryRun, yes)
		},
	}
	cleanCmd.Flags().Bool("dry-run", false, "show what would be removed without deleting")
	cleanCmd.Flags().Bool("yes", false, "skip confirmation prompt")

	rootCmd.AddCommand(cleanCmd)
}

func cleanAppRoot() string {
	appRoot, err := detectAppRoot()
	if err != nil {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			return wd
		}
		return "."
	}
	return appRoot
}

func runCleanList() error {
	targets := buildCleanTargets(cleanAppRoot())
	printHeader("Cleanable Artifacts")
	fmt.Println("Use: envgate clean <target> [--dry-run] [--yes]")
	fmt.Println()

	var totalBytes int64
	for _, t := range targets {
		paths := t.paths()
		var size int64
		var exists bool
		for _, p := range paths {
			if s, ok := dirSize(p); ok {
				size += s
				exists = true
			}
		}
		if exists {
			printStatus(markWarning(), t.id, fmt.Sprintf("%s  %s", formatSize(size), t.description))
			totalBytes += size
		} else {
			printStatus(markInfo(), t.id, fmt.Sprintf("%-10s %s", "(clean)", t.description))
		}
	}

	fmt.Printf("\n%s total reclaimable: %s\n", markInfo(), formatSize(totalBytes))
	fmt.Println()
	fmt.Println("Clean all:          envgate clean all")
	fmt.Println("Specific target:    envgate clean next modules")
	fmt.Println()
	return nil
}

func runClean(args []string, dryRun, yes bool) error {
	targets := buildCleanTargets(cleanAppRoot())
	targetMap := make(map[string]cleanTarget, len(targets))
	for _, t := range targets {
		targetMap[t.id] = t
	}

	var selected []cleanTarget
	for _, arg := range args {
		if arg == "all" {
			selected = targets
			break
		}
		t, ok := targetMap[arg]
		if !ok {
			return fmt.Errorf("unknown clean target: %s (available: next, out, modules, coverage, logs, all)", arg)
		}
		selected = append(selected, t)
	}

	type removal struct {
		target string
		path   string
	}
	var removals []removal
	for _, t := range selected {
		for _, p := range t.paths() {
			if _, err := os.Stat(p); err == nil {
				removals = append(removals, removal{target: t.id, path: p})
			}
		}
	}

	if len(removals) == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	printHeader("Clean")
	var totalSize int64
	for _, r := range removals {
		s, _ := dirSize(r.path)
		totalSize += s
		fmt.Printf("  %s %s %s\n", markWarning(), dimText(fmt.Sprintf("[%s]", r.target)), r.path)
	}
	fmt.Printf("\n  Total: %s across %d entries\n\n", formatSize(totalSize), len(removals))

	if dryRun {
		fmt.Println("  [DRY RUN] No files removed.")
		return nil
	}

	if !yes {
		if !confirmProceed("Remove these entries? [y/N]: ") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var failed []string
	for _, r := range removals {
		fmt.Printf("  Removing %s ...", r.path)
		if err := os.RemoveAll(r.path); err != nil {
			fmt.Printf(" %s %v\n", markFailure(), err)
			failed = append(failed, r.path)
		} else {
			fmt.Printf(" %s\n", markSuccess())
		}
	}

	fmt.Println()
	if len(failed) > 0 {
		printStatus(markWarning(), "clean", fmt.Sprintf("%d of %d removals failed", len(failed), len(removals)))
		return fmt.Errorf("%d removal(s) failed", len(failed))
	}
	printStatus(markSuccess(), "clean", fmt.Sprintf("reclaimed %s", formatSize(totalSize)))
	return nil
}

func dirSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	if !info.IsDir() {
		return info.Size(), true
	}

	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, true
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
