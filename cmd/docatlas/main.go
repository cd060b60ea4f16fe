package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docatlas/cmd/docatlas/commands"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Out: os.Stdout}
	ctx := kong.Parse(&cli,
		kong.Name("docatlas"),
		kong.Description("Build versioned documentation sites from git content sources."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := ctx.Run(global, &cli)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
	os.Exit(adapter.HandleError(err))
}
