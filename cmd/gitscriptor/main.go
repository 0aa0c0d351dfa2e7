package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitscriptor/cmd/gitscriptor/commands"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("gitscriptor"),
		kong.Description("Generate a README for a Git repository."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.GitCommit, version.BuildTime)},
		kong.Bind(global),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := parser.Run(global, cli)
	if werr := cli.WriteMetrics(global); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		stop()
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
