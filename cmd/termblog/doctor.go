package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	Content  contentInfo `json:"content"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// contentInfo holds content layout checks.
type contentInfo struct {
	PostsDir    string `json:"posts_dir"`
	PostsFound  bool   `json:"posts_found"`
	PDFDir      string `json:"pdf_dir"`
	PDFDirFound bool   `json:"pdf_dir_found"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	var configName string
	var jsonOutput bool
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	if err := parseFlagSet(fs, args, env.Stderr, printDoctorUsage); err != nil {
		if errors.Is(err, errHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	cfg, err := loadConfig(&commonFlags{config: configName})
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, cfg.Export.Enabled)
	checkEnvironment(result)
	checkContent(result, cfg)
	checkSystem(result, cfg.Output.Dir)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium. A missing browser is an error only
// when export is enabled; the site itself builds without it.
func checkChrome(result *doctorResult, exportEnabled bool) {
	report := func(msg string) {
		if exportEnabled {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" (needed for build --pdf)")
		}
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			report("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- path from launcher lookup or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("TERMBLOG_CONTAINER") == "1" {
		return true, "TERMBLOG_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkContent verifies the posts and PDF directories exist.
func checkContent(result *doctorResult, cfg *config.Config) {
	result.Content.PostsDir = cfg.PostsPath()
	result.Content.PostsFound = fileutil.DirExists(result.Content.PostsDir)
	result.Content.PDFDir = cfg.PDFPath()
	result.Content.PDFDirFound = fileutil.DirExists(result.Content.PDFDir)

	if !result.Content.PostsFound {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Posts directory %s not found", result.Content.PostsDir))
	}
	if !result.Content.PDFDirFound {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("PDF directory %s not found; pdf: links cannot resolve", result.Content.PDFDir))
	}
}

// checkSystem verifies the output directory, or its nearest existing
// parent, is writable.
func checkSystem(result *doctorResult, outputDir string) {
	result.System.OutputDir = outputDir

	dir := outputDir
	for !fileutil.DirExists(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	testFile := filepath.Join(dir, ".termblog-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", dir))
		return
	}
	_ = os.Remove(testFile)
	result.System.OutputWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "termblog doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Content")
	printPresence(w, "Posts", r.Content.PostsDir, r.Content.PostsFound)
	printPresence(w, "PDFs", r.Content.PDFDir, r.Content.PDFDirFound)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s writable\n", r.System.OutputDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Output directory: %s not writable\n", r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printPresence(w io.Writer, label, dir string, found bool) {
	if found {
		fmt.Fprintf(w, "  [OK] %s: %s\n", label, dir)
	} else {
		fmt.Fprintf(w, "  [WARN] %s: %s missing\n", label, dir)
	}
}
