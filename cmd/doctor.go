package cmd

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/appconfig"
	"github.com/envgate/envgate/internal/buildcfg"
	"github.com/envgate/envgate/internal/envcheck"
	"github.com/envgate/envgate/internal/envfile"
)

type checkResult struct {
	name     string
	required bool
	ok       bool
	detail   string
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Pre-flight check (tools, env files, variables, config)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func runDoctor() error {
	results := make([]checkResult, 0)
	appRoot, err := detectAppRoot()
	if err != nil {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			appRoot = wd
		} else {
			appRoot = "."
		}
	}

	values := envfile.FromProcess()

	requiredTools := []string{"node", "npm"}
	for _, tool := range requiredTools {
		if path, lookErr := exec.LookPath(tool); lookErr == nil {
			results = append(results, checkResult{
				name:     "tool:" + tool,
				required: true,
				ok:       true,
				detail:   path,
			})
		} else {
			results = append(results, checkResult{
				name:     "tool:" + tool,
				required: true,
				ok:       false,
				detail:   "not found in PATH",
			})
		}
	}

	if branch, branchErr := currentGitBranch(); branchErr == nil && branch != "" {
		check := checkResult{name: "git:branch", required: false, ok: true, detail: branch}
		if env, ok := branchToEnvironment(branch); ok {
			check.detail = branch + " ships " + string(env)
			if app := strings.TrimSpace(values["NEXT_PUBLIC_APP_ENV"]); app != "" && app != string(env) {
				check.ok = false
				check.detail = fmt.Sprintf("branch %s expects NEXT_PUBLIC_APP_ENV=%s, got %s", branch, env, app)
			}
		}
		results = append(results, check)
	}
	// Not a git checkout or git missing: nothing to report.

	for _, env := range buildcfg.Environments {
		file := envfile.DefaultPath(string(env))
		abs := filepath.Join(appRoot, file)
		if st, statErr := os.Stat(abs); statErr == nil && !st.IsDir() {
			results = append(results, checkResult{
				name:     "file:" + file,
				required: false,
				ok:       true,
				detail:   abs,
			})
		} else {
			results = append(results, checkResult{
				name:     "file:" + file,
				required: false,
				ok:       false,
				detail:   "not generated (envgate env init --environment " + string(env) + ")",
			})
		}
	}

	covered, gitignoreErr := gitignoreCoversEnv(appRoot)
	gitignoreCheck := checkResult{name: "file:.gitignore", required: true, ok: covered, detail: ".env files are ignored"}
	if gitignoreErr != nil {
		gitignoreCheck.detail = gitignoreErr.Error()
	} else if !covered {
		gitignoreCheck.detail = ".env files are not ignored"
	}
	results = append(results, gitignoreCheck)

	for _, key := range envcheck.RequiredNames() {
		value := strings.TrimSpace(values[key])
		ok := value != ""
		detail := "not set"
		if ok {
			detail = maskValue(key, value)
		}
		results = append(results, checkResult{
			name:     "env:" + key,
			required: true,
			ok:       ok,
			detail:   detail,
		})
	}

	for _, key := range envcheck.OptionalNames() {
		value := strings.TrimSpace(values[key])
		ok := value != ""
		detail := "not set (optional)"
		if ok {
			detail = maskValue(key, value)
		}
		results = append(results, checkResult{
			name:     "env:" + key,
			required: false,
			ok:       ok,
			detail:   detail,
		})
	}

	raw := strings.TrimSpace(values["NEXT_PUBLIC_APP_ENV"])
	envCheck := checkResult{name: "config:environment", required: false, ok: false, detail: "not set, using development profile"}
	if raw != "" {
		if env, ok := buildcfg.Parse(raw); ok {
			envCheck.ok = true
			envCheck.detail = "profile " + string(env)
		} else {
			envCheck.detail = fmt.Sprintf("unrecognized %q, using development profile", raw)
		}
	}
	results = append(results, envCheck)

	for _, key := range []string{"NEXT_PUBLIC_API_URL", "NEXTAUTH_URL", "DATABASE_URL"} {
		val := strings.TrimSpace(values[key])
		if val == "" {
			continue
		}
		u, parseErr := url.Parse(val)
		ok := parseErr == nil && u.Scheme != "" && u.Host != ""
		detail := maskValue(key, val)
		if !ok {
			// Never echo a malformed secret.
			detail = "not an absolute URL"
			if !envcheck.SecretName(key) {
				detail += ": " + val
			}
		}
		results = append(results, checkResult{name: "url:" + key, required: false, ok: ok, detail: detail})
	}

	if secret := values["NEXTAUTH_SECRET"]; strings.TrimSpace(secret) != "" {
		ok := len(secret) >= 32
		detail := fmt.Sprintf("%d chars", len(secret))
		if !ok {
			detail += ", want 32+"
		}
		results = append(results, checkResult{name: "secret:NEXTAUTH_SECRET", required: false, ok: ok, detail: detail})
	}

	typedCheck := checkResult{name: "config:typed", required: true, ok: true, detail: "loads"}
	if _, loadErr := appconfig.Load(values); loadErr != nil {
		typedCheck.ok = false
		typedCheck.detail = loadErr.Error()
	}
	results = append(results, typedCheck)

	printHeader("Envgate Doctor")
	fmt.Printf("app_root: %s\n\n", appRoot)

	passed, warned, failed := 0, 0, 0
	for _, r := range results {
		status := markSuccess()
		if !r.ok && r.required {
			status = markFailure()
			failed++
		} else if !r.ok {
			status = markWarning()
			warned++
		} else {
			passed++
		}
		printStatus(status, r.name, r.detail)
	}

	printSummaryBox(passed, warned, failed)

	if failed > 0 {
		return fmt.Errorf("doctor found %d required issue(s)", failed)
	}

	fmt.Println("doctor passed")
	return nil
}

func currentGitBranch() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// branchToEnvironment maps the deploy branches to the environment each one
// ships to. Other branches get no suggestion.
func branchToEnvironment(branch string) (buildcfg.Environment, bool) {
	switch branch {
	case "develop":
		return buildcfg.Development, true
	case "staging":
		return buildcfg.Staging, true
	case "main":
		return buildcfg.Production, true
	}
	return "", false
}
