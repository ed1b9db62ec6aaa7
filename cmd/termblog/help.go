package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build the site into the output directory")
	fmt.Fprintln(w, "  serve       Build and serve the site with the PDF viewer")
	fmt.Fprintln(w, "  check       Verify pdf: links against the PDF directory")
	fmt.Fprintln(w, "  doctor      Check the environment for PDF export")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'termblog help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by build, serve and check.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --content <dir>       Content directory")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "      --log-level <s>       trace, debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      console, json, pretty")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: TERMBLOG_CONFIG, TERMBLOG_CONTENT_DIR, TERMBLOG_OUTPUT_DIR,")
	fmt.Fprintln(w, "TERMBLOG_BASE_URL, TERMBLOG_STYLE, TERMBLOG_ADDR, TERMBLOG_LOG_LEVEL,")
	fmt.Fprintln(w, "TERMBLOG_LOG_FORMAT, TERMBLOG_PAGE_SIZE, TERMBLOG_EXPORT_TIMEOUT, TERMBLOG_WORKERS")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render posts, pages and tags into the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build:")
	fmt.Fprintln(w, "      --clean               Remove the output directory first")
	fmt.Fprintln(w, "      --strict              Fail when a pdf: link does not resolve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "      --pdf                 Export every post to PDF (needs Chrome)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-post timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site and serve it. pdf: links open in the viewer panel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --watch               Rebuild when content changes")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog check [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verify that every pdf: link names an existing PDF, a page within")
	fmt.Fprintln(w, "range and, when given, a highlight found on that page.")
	fmt.Fprintln(w, "Exits with status 5 when links are broken.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check:")
	fmt.Fprintln(w, "      --json                Print problems as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container/CI settings and the content layout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: termblog version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: termblog help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
