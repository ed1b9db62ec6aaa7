// Package hints appends actionable advice to CLI error messages.
// Every hint renders as "\n  hint: <text>".
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-termblog/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests rod environment variables for Chrome
// startup failures during PDF export.
func ForBrowserConnect() string {
	var list []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		list = append(list, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		list = append(list, "set ROD_BROWSER_BIN to use a specific Chrome")
	}
	list = append(list, "run termblog doctor")
	return formatHints(list)
}

// ForTimeout suggests a longer export timeout.
func ForTimeout() string {
	return format("raise export.timeout or pass --timeout")
}

// ForConfigNotFound suggests --config or the user config file to create.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/termblog.yaml"
	marker := string(filepath.Separator) + "termblog" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check the parent of output.dir exists and is writable")
}

// ForContentDirectory returns hints when the posts directory is missing.
func ForContentDirectory(dir string) string {
	return format("create " + dir + " or set content.dir; run termblog from the blog root")
}

// ForStyleNotFound lists the available highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForBrokenLinks points at the check command.
func ForBrokenLinks() string {
	return format("fix the pdf: links above, or drop --strict")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return format(strings.Join(list, "; "))
}
