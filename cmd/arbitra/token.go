package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/arbitra/internal/auth"
	"github.com/MrJamesThe3rd/arbitra/internal/config"
)

type tokenCmd struct {
	out io.Writer

	user string
	ttl  time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue an API token signed with JWT_SECRET" }
func (*tokenCmd) Usage() string {
	return `arbitra token -user <name> [-ttl <duration>]

  Prints a bearer token for the API. The user name is recorded as the actor of
  every change made with the token.
`
}

func (t *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.user, "user", "", "User the token is issued to.")
	f.DurationVar(&t.ttl, "ttl", 0, "Token lifetime. Defaults to TOKEN_TTL.")
}

func (t *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if t.user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set; the API runs without authentication")
		return subcommands.ExitFailure
	}

	ttl := t.ttl
	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, ttl).Issue(t.user)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintln(t.out, token)

	return subcommands.ExitSuccess
}
