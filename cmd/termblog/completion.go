package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/logging"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values, e.g. shells
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":  {Values: config.PageSizes},
	"log-level":  {Values: logging.Levels},
	"log-format": {Values: logging.Formats},
	"config":     {FileGlob: "*.yaml,*.yml"},
	"content":    {IsDir: true},
	"output":     {IsDir: true},
}

var shells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	doctor := flag.NewFlagSet("doctor", flag.ContinueOnError)
	doctor.StringP("config", "c", "", "config file name or path")
	doctor.Bool("json", false, "print results as JSON")

	return []commandDef{
		{Name: "build", Desc: "Build the site", Flags: extractFlagsFromFlagSet(buildFlagSet(&buildFlags{}))},
		{Name: "serve", Desc: "Serve the site with the PDF viewer", Flags: extractFlagsFromFlagSet(serveFlagSet(&serveFlags{}))},
		{Name: "check", Desc: "Verify pdf: links", Flags: extractFlagsFromFlagSet(checkFlagSet(&checkFlags{}))},
		{Name: "doctor", Desc: "Check the export environment", Flags: extractFlagsFromFlagSet(doctor)},
		{Name: "completion", Desc: "Generate shell completion script", Args: shells},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	case ShellPowerShell:
		script = powerShellScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for termblog\n")
	b.WriteString("_termblog_completions() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("    return\n  fi\n")
	b.WriteString("  case \"$prev\" in\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || (f.Type != flagEnum && f.Type != flagDir && f.Type != flagFile) {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(&b, "    --%s)\n", f.Long)
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "      COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", strings.Join(f.Values, " "))
			case flagDir:
				b.WriteString("      COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n")
			default:
				b.WriteString("      COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n")
			}
		}
	}
	b.WriteString("  esac\n")
	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		words := append([]string(nil), c.Args...)
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", c.Name, strings.Join(words, " "))
	}
	b.WriteString("  esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _termblog_completions termblog\n")
	return b.String()
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef termblog\n\n")
	b.WriteString("_termblog() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n        '--%s[%s]%s'", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, " \\\n        '1:shell:(%s)'", strings.Join(c.Args, " "))
		}
		b.WriteString("\n      ;;\n")
	}
	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_termblog \"$@\"\n")
	return b.String()
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":directory:_files -/"
	case flagFile:
		return ":file:_files"
	case flagString, flagInt:
		return ":value:"
	}
	return ""
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for termblog\n")
	b.WriteString("function __fish_termblog_needs_command\n")
	b.WriteString("  set -l cmd (commandline -opc)\n")
	b.WriteString("  test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_termblog_using_command\n")
	b.WriteString("  set -l cmd (commandline -opc)\n")
	b.WriteString("  test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c termblog -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c termblog -n __fish_termblog_needs_command -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_termblog_using_command %s'", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c termblog -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, " -x -a %q", strings.Join(f.Values, " "))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagFile:
				b.WriteString(" -r -F")
			case flagString, flagInt:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d %q\n", f.Desc)
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c termblog -n %s -a %q\n", cond, strings.Join(c.Args, " "))
		}
	}
	return b.String()
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for termblog\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName termblog -ScriptBlock {\n")
	b.WriteString("  param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("  $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("  $commands = @{\n")
	for _, c := range cmds {
		words := append([]string(nil), c.Args...)
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = "'" + w + "'"
		}
		fmt.Fprintf(&b, "    '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("  }\n")
	b.WriteString("  if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("    $candidates = $commands.Keys\n")
	b.WriteString("  } else {\n")
	b.WriteString("    $candidates = $commands[$words[1]]\n")
	b.WriteString("  }\n")
	b.WriteString("  $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("    [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termblog completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(termblog completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(termblog completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    termblog completion fish > ~/.config/fish/completions/termblog.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    termblog completion powershell | Out-String | Invoke-Expression")
}
