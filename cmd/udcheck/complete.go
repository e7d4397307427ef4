package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
)

func completeCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:            "complete",
		Usage:           "Print completions for the bash script",
		Hidden:          true,
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			return completeCommand(args, ui)
		},
	}
}

// completeCommand handles the autocompletion requests triggered by the bash completion script.
func completeCommand(args []string, ui UI) error {
	completions := getCompletions(args)
	for _, c := range completions {
		_, _ = fmt.Fprintln(ui.Out, c)
	}
	return nil
}

func getCompletions(args []string) []string {
	if len(args) < 1 {
		return nil
	}

	app := newApp(UI{Out: io.Discard, Err: io.Discard})

	// args[0] is "udcheck" (binary name from COMP_WORDS[0])
	commandIndex := 1
	cursorIndex := len(args) - 1
	lastWord := args[cursorIndex]

	// global flags may come before the command
	for commandIndex < cursorIndex && strings.HasPrefix(args[commandIndex], "-") {
		commandIndex++
	}

	if cursorIndex == commandIndex {
		if strings.HasPrefix(lastWord, "-") {
			return matchFlags(app.Flags, lastWord)
		}

		var completions []string
		for _, c := range app.VisibleCommands() {
			if strings.HasPrefix(c.Name, lastWord) {
				completions = append(completions, c.Name)
			}
		}
		return completions
	}

	if !strings.HasPrefix(lastWord, "-") {
		return nil
	}

	cmd := app.Command(args[commandIndex])
	if cmd == nil {
		return nil
	}
	return matchFlags(cmd.Flags, lastWord)
}

func matchFlags(flags []cli.Flag, prefix string) []string {
	var completions []string
	for _, f := range flags {
		name := "--" + f.Names()[0]
		if strings.HasPrefix(name, prefix) {
			completions = append(completions, name)
		}
	}
	return completions
}
