package cmd

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/envcheck"
)

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceLogsCmd)

	serviceStartCmd.Flags().Int("port", 0, "dev server port (default: PORT or 3000)")
	serviceStartCmd.Flags().String("environment", "", "deploy environment (default: NEXT_PUBLIC_APP_ENV)")
	serviceStartCmd.Flags().String("env-file", "", "path to env file")
	serviceLogsCmd.Flags().Int("lines", 50, "number of log lines to print")
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the background dev server",
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dev server in the background",
	RunE:  runServiceStart,
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background dev server",
	RunE:  runServiceStop,
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check dev server status",
	RunE:  runServiceStatus,
}

var serviceLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the tail of the dev server log",
	RunE:  runServiceLogs,
}

// ─── PID file management ─────────────────────────────────────────────

func envgateRunDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".envgate", "run")
}

func envgateLogDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".envgate", "log")
}

func devServerPIDPath() string {
	return filepath.Join(envgateRunDir(), "dev-server.pid")
}

func devServerLogPath() string {
	return filepath.Join(envgateLogDir(), "dev-server.log")
}

func writePID(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// checkStaleAndClean reads the PID file. If the process is dead, it removes
// the stale file and returns 0. If alive, it returns the PID.
func checkStaleAndClean(pidPath string) int {
	pid, err := readPID(pidPath)
	if err != nil {
		return 0
	}
	if processAlive(pid) {
		return pid
	}
	_ = os.Remove(pidPath)
	return 0
}

// ─── Shared helpers ──────────────────────────────────────────────────

func portReachable(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func waitForPort(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if portReachable(addr, time.Second) {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s after %s", addr, timeout)
}

func waitForProcessExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return true
		}
		time.Sleep(250 * time.Millisecond)
	}
	return false
}

// resolveDevPort picks the dev server port: --port, then PORT from values,
// then the next dev default.
func resolveDevPort(cmd *cobra.Command, values map[string]string) int {
	if port, err := cmd.Flags().GetInt("port"); err == nil && port > 0 {
		return port
	}
	if p, err := strconv.Atoi(strings.TrimSpace(values["PORT"])); err == nil && p > 0 {
		return p
	}
	return 3000
}

// ─── Dev server implementations ─────────────────────────────────────

func runServiceStart(cmd *cobra.Command, args []string) error {
	printHeader("Dev Server Start")

	pidPath := devServerPIDPath()
	if existing := checkStaleAndClean(pidPath); existing != 0 {
		printStatus(markWarning(), "dev-server", fmt.Sprintf("already running (PID %d)", existing))
		return nil
	}

	appRoot, err := detectAppRoot()
	if err != nil {
		return err
	}

	values, err := resolveValues(cmd)
	if err != nil {
		return err
	}

	report := envcheck.Check(values)
	if !report.AllOK {
		for _, name := range report.Missing() {
			printStatus(markFailure(), name, "missing")
		}
		return fmt.Errorf("dev server blocked, %d missing required variable(s)", len(report.Missing()))
	}

	port := resolveDevPort(cmd, values)
	values["NODE_ENV"] = "development"
	values["PORT"] = strconv.Itoa(port)

	if _, lookErr := exec.LookPath("npm"); lookErr != nil {
		return fmt.Errorf("npm not found in PATH")
	}

	logPath := devServerLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	// Truncate log so each run starts clean.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	proc := exec.Command("npm", "run", "dev")
	proc.Dir = appRoot
	proc.Env = environFromValues(values)
	proc.Stdout = logFile
	proc.Stderr = logFile
	proc.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	printStatus(markInfo(), "dev-server", fmt.Sprintf("exec: npm run dev (port %d)", port))

	if err := proc.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to start dev server: %w", err)
	}

	pid := proc.Process.Pid
	if err := writePID(pidPath, pid); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// Release the process so it runs independently.
	_ = proc.Process.Release()
	logFile.Close()

	addr := fmt.Sprintf("localhost:%d", port)
	printStatus(markInfo(), "dev-server", "waiting for "+addr+"...")
	if err := waitForPort(addr, 30*time.Second); err != nil {
		printStatus(markWarning(), "dev-server", fmt.Sprintf("port %d not reachable yet, check %s", port, logPath))
	} else {
		printStatus(markSuccess(), "dev-server", "listening on http://"+addr)
	}

	printStatus(markSuccess(), "dev-server", fmt.Sprintf("started (PID %d, log: %s)", pid, logPath))
	return nil
}

func runServiceStop(cmd *cobra.Command, args []string) error {
	printHeader("Dev Server Stop")

	pidPath := devServerPIDPath()
	pid := checkStaleAndClean(pidPath)
	if pid == 0 {
		printStatus(markInfo(), "dev-server", "not running")
		return nil
	}

	printStatus(markInfo(), "dev-server", fmt.Sprintf("sending SIGTERM to PID %d...", pid))

	// The server runs as its own process group, signal the group so npm's
	// child node process goes down with it.
	_ = syscall.Kill(-pid, syscall.SIGTERM)

	if waitForProcessExit(pid, 5*time.Second) {
		_ = os.Remove(pidPath)
		printStatus(markSuccess(), "dev-server", "stopped")
		return nil
	}

	printStatus(markWarning(), "dev-server", "still running after SIGTERM, sending SIGKILL...")
	_ = syscall.Kill(-pid, syscall.SIGKILL)

	if waitForProcessExit(pid, 3*time.Second) {
		_ = os.Remove(pidPath)
		printStatus(markSuccess(), "dev-server", "killed")
		return nil
	}

	printStatus(markFailure(), "dev-server", fmt.Sprintf("PID %d could not be stopped", pid))
	return fmt.Errorf("dev server (PID %d) could not be stopped", pid)
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	printHeader("Dev Server Status")

	pid := checkStaleAndClean(devServerPIDPath())
	if pid == 0 {
		printStatus(markFailure(), "dev-server", "not running")
		return nil
	}
	printStatus(markSuccess(), "dev-server", fmt.Sprintf("running (PID %d)", pid))

	port := 3000
	if p, err := strconv.Atoi(strings.TrimSpace(os.Getenv("PORT"))); err == nil && p > 0 {
		port = p
	}
	addr := fmt.Sprintf("localhost:%d", port)
	if portReachable(addr, 2*time.Second) {
		printStatus(markSuccess(), "tcp:"+strconv.Itoa(port), "dev server reachable")
	} else {
		printStatus(markWarning(), "tcp:"+strconv.Itoa(port), "not reachable")
	}
	return nil
}

func runServiceLogs(cmd *cobra.Command, args []string) error {
	lines, _ := cmd.Flags().GetInt("lines")

	logPath := devServerLogPath()
	data, err := os.ReadFile(logPath)
	if err != nil {
		return fmt.Errorf("no dev server log at %s", logPath)
	}

	all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines > 0 && len(all) > lines {
		all = all[len(all)-lines:]
	}
	for _, line := range all {
		fmt.Println(line)
	}
	return nil
}
