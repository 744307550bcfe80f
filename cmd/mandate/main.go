package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/meenmo/mandate/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(path.Base(os.Args[0]), flag.ContinueOnError)
	fs.SetOutput(stderr)
	a := &app{stdout: stdout, stderr: stderr}
	fs.StringVar(&a.configPath, "config", "", "YAML run configuration (defaults plus environment when empty)")

	commander := subcommands.NewCommander(fs, "mandate")
	commander.Output = stdout
	commander.Error = stderr
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&valueCmd{app: a}, "")
	commander.Register(&exposuresCmd{app: a}, "")
	commander.Register(&deviationsCmd{app: a}, "")

	if err := fs.Parse(args); err != nil {
		return int(subcommands.ExitUsageError)
	}
	return int(commander.Execute(context.Background()))
}
