package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sgrep/internal/grammar"
)

func langsCommand(c *cli.Context) error {
	for _, lang := range grammar.Builtin().Languages() {
		line := fmt.Sprintf("%-12s %s", lang.Tag, strings.Join(lang.Extensions(), " "))
		if len(lang.Aliases) > 0 {
			line += "  (aliases: " + strings.Join(lang.Aliases, ", ") + ")"
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}
