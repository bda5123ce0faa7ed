package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/logger"
	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// CLI is the command line of eventor-gen
type CLI struct {
	Globals

	Generate   GenerateCmd   `cmd:"" help:"Generate artifacts from a definition directory"`
	GenSources GenSourcesCmd `cmd:"" name:"gen-sources" help:"Generate artifacts using the build layout (for go:generate and build scripts)"`
	Check      CheckCmd      `cmd:"" help:"Lint definitions without generating"`
	Conf       ConfigCmd     `cmd:"" name:"config" help:"Manage the configuration file"`
	Version    VersionCmd    `cmd:"" help:"Print the version"`
}

// errFailed marks a run that completed but left failures behind. The
// failures were already logged.
var errFailed = errors.New("one or more definitions failed")

type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs()))
}

func run(args []string, stdout, stderr io.Writer, fs afero.Fs) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("eventor-gen"),
		kong.Description("Generate message DTOs, producers and consumers from JSON definitions"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "eventor-gen: %v\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "eventor-gen: error: %v\n", err)
		return 2
	}

	log := cli.Globals.logger(stdout, stderr)
	logger.SetDefault(log)

	env := &Env{Fs: fs, Log: log, Stdout: stdout}
	if err := ctx.Run(&cli.Globals, env); err != nil {
		if !errors.Is(err, errFailed) {
			log.Error("%v", err)
		}
		return 1
	}
	return 0
}
