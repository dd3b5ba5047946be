package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

type commandStep struct {
	name string
	cmd  []string
}

type appTask struct {
	id          string
	description string
	requiresEnv bool
	nodeEnv     string
	steps       []commandStep
}

var appTasks = []appTask{
	{
		id:          "deps",
		description: "Install npm dependencies (npm ci)",
		nodeEnv:     "development",
		steps: []commandStep{
			{name: "npm ci", cmd: []string{"npm", "ci"}},
		},
	},
	{
		id:          "dev",
		description: "Start the app dev server (next dev)",
		requiresEnv: true,
		nodeEnv:     "development",
		steps: []commandStep{
			{name: "npm run dev", cmd: []string{"npm", "run", "dev"}},
		},
	},
	{
		id:          "start",
		description: "Serve the production build (next start)",
		requiresEnv: true,
		nodeEnv:     "production",
		steps: []commandStep{
			{name: "npm run start", cmd: []string{"npm", "run", "start"}},
		},
	},
	{
		id:          "lint",
		description: "Run the app linter",
		nodeEnv:     "development",
		steps: []commandStep{
			{name: "npm run lint", cmd: []string{"npm", "run", "lint"}},
		},
	},
	{
		id:          "test",
		description: "Run the app test suite",
		nodeEnv:     "test",
		steps: []commandStep{
			{name: "npm run test", cmd: []string{"npm", "run", "test"}},
		},
	},
}

func findAppTask(id string) (appTask, bool) {
	for _, t := range appTasks {
		if t.id == id {
			return t, true
		}
	}
	return appTask{}, false
}

// taskEnvironment returns the effective values for a task run. NODE_ENV is
// pinned to what the task expects; everything else passes through.
func taskEnvironment(values map[string]string, task appTask) map[string]string {
	merged := make(map[string]string, len(values)+1)
	for k, v := range values {
		merged[k] = v
	}
	if task.nodeEnv != "" {
		merged["NODE_ENV"] = task.nodeEnv
	}
	return merged
}

func runTaskSteps(task appTask, appRoot string, values map[string]string, dryRun bool) error {
	fmt.Printf("Task: %s\n", task.id)
	fmt.Printf("steps: %d\n", len(task.steps))
	fmt.Printf("dry_run: %v\n\n", dryRun)

	for i, step := range task.steps {
		printStep(i+1, len(task.steps), step.name)
		printCommand(step.cmd)

		if dryRun {
			fmt.Println("      [DRY] skipped")
			continue
		}

		if len(step.cmd) == 0 {
			fmt.Fprintf(os.Stderr, "      %s empty command\n", markFailure())
			return fmt.Errorf("empty command in step %d", i+1)
		}

		if _, err := exec.LookPath(step.cmd[0]); err != nil {
			fmt.Fprintf(os.Stderr, "      %s command not found: %s\n", markFailure(), step.cmd[0])
			return fmt.Errorf("command not found: %s", step.cmd[0])
		}

		start := time.Now()
		c := exec.Command(step.cmd[0], step.cmd[1:]...)
		c.Dir = appRoot
		c.Env = environFromValues(values)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		if err := c.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "      %s step failed: %v\n", markFailure(), err)
			return fmt.Errorf("step %q failed: %w", step.name, err)
		}

		printDuration(time.Since(start))
	}

	fmt.Println()
	return nil
}

// environFromValues serializes values for exec.Cmd.Env, sorted so command
// environments are reproducible across runs.
func environFromValues(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+values[k])
	}
	return env
}

func formatCommand(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.ContainsAny(p, " \t\"'") {
			quoted = append(quoted, fmt.Sprintf("%q", p))
		} else {
			quoted = append(quoted, p)
		}
	}
	return strings.Join(quoted, " ")
}
