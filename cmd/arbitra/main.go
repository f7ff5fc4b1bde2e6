// Command arbitra is the operator CLI: quick calculations, API tokens, migrations and reports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&calcCmd{out: os.Stdout}, "")
	commander.Register(&reportCmd{out: os.Stdout}, "")
	commander.Register(&tokenCmd{out: os.Stdout}, "admin")
	commander.Register(&migrateCmd{}, "admin")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
