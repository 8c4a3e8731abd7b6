// Package logger sets up structured logging and writes crash reports when
// veritas panics.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

// MaxCrashLogs is the number of crash reports kept on disk.
const MaxCrashLogs = 10

const (
	crashPrefix = "crash_"
	crashSuffix = ".json"
)

// crashContext is what we know about the session when a panic happens.
type crashContext struct {
	mu        sync.RWMutex
	dir       string
	version   string
	command   string
	backend   string
	lastInput string
	lastLane  string
}

var current = &crashContext{}

// SetCrashDir sets where crash reports are written.
func SetCrashDir(dir string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.dir = dir
}

// SetVersion records the application version.
func SetVersion(version string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.version = version
}

// SetCommand records the command being executed.
func SetCommand(cmd string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.command = cmd
}

// SetBackend records the backend base URL.
func SetBackend(url string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.backend = url
}

// SetLastSubmission records the most recent text sent down a lane.
func SetLastSubmission(lane, text string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.lastLane = lane
	current.lastInput = truncateForLog(strings.TrimSpace(text), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashReport is one panic, as written to disk.
type CrashReport struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Command   string    `json:"command"`
	Backend   string    `json:"backend,omitempty"`
	Panic     string    `json:"panic"`
	Stack     string    `json:"stack"`
	LastLane  string    `json:"last_lane,omitempty"`
	LastInput string    `json:"last_input,omitempty"`
	GoVersion string    `json:"go_version"`
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash report and exits.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	report := newCrashReport(r)
	path, err := WriteCrashReport(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, report.Stack)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nveritas hit an unexpected error.\n")
	fmt.Fprintf(os.Stderr, "A crash report has been saved to:\n  %s\n\n", path)
	os.Exit(1)
}

func newCrashReport(panicValue any) CrashReport {
	current.mu.RLock()
	defer current.mu.RUnlock()

	return CrashReport{
		Timestamp: time.Now(),
		Version:   current.version,
		Command:   current.command,
		Backend:   current.backend,
		Panic:     fmt.Sprintf("%v", panicValue),
		Stack:     string(debug.Stack()),
		LastLane:  current.lastLane,
		LastInput: current.lastInput,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// WriteCrashReport stores report in the crash directory, pruning old ones,
// and returns the file path.
func WriteCrashReport(report CrashReport) (string, error) {
	dir := crashDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}

	path := filepath.Join(dir, crashPrefix+report.Timestamp.Format("20060102_150405.000000000")+crashSuffix)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}

	if err := pruneCrashReports(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}
	return path, nil
}

func crashDir() string {
	current.mu.RLock()
	defer current.mu.RUnlock()
	if current.dir == "" {
		return filepath.Join(".veritas", "crash_logs")
	}
	return current.dir
}

// pruneCrashReports keeps the newest MaxCrashLogs reports.
func pruneCrashReports(dir string) error {
	reports, err := listReports(dir)
	if err != nil {
		return err
	}
	if len(reports) <= MaxCrashLogs {
		return nil
	}
	for _, name := range reports[:len(reports)-MaxCrashLogs] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}

// listReports returns crash report file names, oldest first.
func listReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), crashPrefix) && strings.HasSuffix(e.Name(), crashSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCrashLogs returns the paths of stored crash reports, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := crashDir()
	names, err := listReports(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}
