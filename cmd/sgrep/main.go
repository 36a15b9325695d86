package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sgrep/internal/version"
)

// languageTags lists the per-language selector flags in help order. Each
// name doubles as the registry tag it selects.
var languageTags = []string{
	"rust", "ocaml", "go", "javascript", "typescript",
	"python", "java", "csharp", "cpp", "php", "zig",
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sgrep: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI. Usage-class failures exit 2 via cli.Exit; plain
// errors bubble to main and exit 1.
func newApp() *cli.App {
	return &cli.App{
		Name:                   "sgrep",
		Usage:                  "Syntax-aware search over source code",
		ArgsUsage:              "PATTERN [PATH]",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags:                  appFlags(),
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return cli.Exit(fmt.Sprintf("sgrep: %v", err), 2)
		},
		Action: rootAction,
		Commands: []*cli.Command{
			{
				Name:   "langs",
				Usage:  "List supported languages with their aliases and extensions",
				Action: langsCommand,
			},
			{
				Name:      "mcp",
				Usage:     "Serve searches over the Model Context Protocol on stdio",
				ArgsUsage: "[PATH]",
				Action:    mcpCommand,
			},
			{
				Name:   "version",
				Usage:  "Print detailed version and build information",
				Action: versionCommand,
			},
		},
	}
}

func appFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(languageTags)+20)
	for _, tag := range languageTags {
		flags = append(flags, &cli.BoolFlag{
			Name:  tag,
			Usage: "Search " + tag + " sources",
		})
	}

	flags = append(flags,
		&cli.StringFlag{
			Name:  "lang",
			Usage: "Language tag or alias (see 'sgrep langs')",
		},
		&cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "Span kinds to search, comma-separated: identifier, string, comment",
		},
		&cli.BoolFlag{
			Name:    "sensitive",
			Aliases: []string{"s"},
			Usage:   "Case-sensitive matching",
		},
		&cli.BoolFlag{
			Name:    "insensitive",
			Aliases: []string{"S"},
			Usage:   "Case-insensitive matching",
		},
		&cli.BoolFlag{
			Name:    "word",
			Aliases: []string{"w"},
			Usage:   "Match whole words only",
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Run a tree-sitter query expression instead of a pattern search",
		},
		&cli.BoolFlag{
			Name:  "column",
			Usage: "Print 1-based column numbers",
		},
		&cli.BoolFlag{
			Name:  "nogroup",
			Usage: "Print path:line:text per match instead of per-file groups",
		},
		&cli.BoolFlag{
			Name:  "nocolor",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.BoolFlag{
			Name:  "no-truncate",
			Usage: "Never shorten long lines to the terminal width",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"e"},
			Usage:   "Exclude paths matching glob (repeatable, e.g. --exclude '**/generated/**')",
		},
		&cli.StringFlag{
			Name:  "max-file-size",
			Usage: "Skip files larger than SIZE (e.g. 512KB, 10MB)",
		},
		&cli.BoolFlag{
			Name:  "no-artifact-detection",
			Usage: "Do not read build manifests for extra output dirs to skip",
		},
		&cli.BoolFlag{
			Name:  "follow-symlinks",
			Usage: "Follow symlinked directories while walking",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Parallel file workers (0 = one per CPU)",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Rerun the search whenever files under PATH change",
		},
		&cli.IntFlag{
			Name:    "max-count",
			Aliases: []string{"m"},
			Usage:   "Stop after N matches per file (0 = unlimited)",
		},
	)
	return flags
}

// rootAction dispatches the default invocation. A bare `sgrep` with
// nothing to do shows help; anything that looks like a search attempt
// goes through the search path so its mistakes report as usage errors.
func rootAction(c *cli.Context) error {
	if c.NArg() == 0 && c.String("query") == "" && !languageRequested(c) {
		return cli.ShowAppHelp(c)
	}
	return searchAction(c)
}

func languageRequested(c *cli.Context) bool {
	if c.String("lang") != "" {
		return true
	}
	for _, tag := range languageTags {
		if c.Bool(tag) {
			return true
		}
	}
	return false
}

func versionCommand(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, version.FullInfo())
	fmt.Fprintf(c.App.Writer, "build id: %s\n", version.BuildID())
	return nil
}
