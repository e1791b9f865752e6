package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/ytget/tokbulk/internal/printer"
)

type VersionCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	version string
	format  string
}

// NewVersionCommand returns the version command.
func NewVersionCommand(rootCmd *RootCommand, app *kingpin.Application, version string) *VersionCommand {
	c := &VersionCommand{rootCmd: rootCmd, version: version}

	c.Cmd = app.Command("version", "Show the application version.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(FormatTable).EnumVar(&c.format, FormatTable, FormatJSON)

	return c
}

func (c VersionCommand) Name() string { return c.Cmd.FullCommand() }

func (c VersionCommand) Run(_ context.Context) error {
	return newPrinter(c.format, c.rootCmd).PrintMessage(c.version)
}

func newPrinter(format string, rootCmd *RootCommand) printer.Printer {
	if format == FormatJSON {
		return printer.NewJSONPrinter(rootCmd.Stdout)
	}
	return printer.NewTablePrinter(rootCmd.Stdout)
}
