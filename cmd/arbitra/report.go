package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	auditStore "github.com/MrJamesThe3rd/arbitra/internal/audit/store"
	"github.com/MrJamesThe3rd/arbitra/internal/config"
	"github.com/MrJamesThe3rd/arbitra/internal/database"
	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	holderStore "github.com/MrJamesThe3rd/arbitra/internal/holder/store"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
	txStore "github.com/MrJamesThe3rd/arbitra/internal/transaction/store"
)

type reportCmd struct {
	out io.Writer

	period     string
	from       string
	to         string
	visibility string
	channel    string
	status     string
	format     string
	dir        string
	raw        bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "summarize the ledger or export it" }
func (*reportCmd) Usage() string {
	return `arbitra report [-p <period> | -from <date> -to <date>] [-format md|csv|zip] [-o <dir>]

  Prints the ledger summary and trade table for a period. csv writes the trades
  to stdout; zip writes the CSV and the summary into <dir>.
`
}

func (r *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.period, "p", string(transaction.PeriodThisMonth), "Period (all, today, yesterday, this_month, last_month).")
	f.StringVar(&r.from, "from", "", "First day of a custom range (YYYY-MM-DD). Overrides -p.")
	f.StringVar(&r.to, "to", "", "Last day of a custom range, inclusive. Defaults to today.")
	f.StringVar(&r.visibility, "visibility", "", "all, public or private.")
	f.StringVar(&r.channel, "channel", "", "all, cash, bank or hybrid.")
	f.StringVar(&r.status, "status", "", "all, active or complete.")
	f.StringVar(&r.format, "format", "md", "Output format (md, csv, zip).")
	f.StringVar(&r.dir, "o", "./exports", "Output directory for zip.")
	f.BoolVar(&r.raw, "raw", false, "Print plain markdown.")
}

func (r *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	filter, err := r.filter(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	rep, err := newExportService(db).Export(ctx, filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	switch r.format {
	case "csv":
		err = export.WriteCSV(r.out, rep.Lines)
	case "zip":
		var file string
		if file, err = export.SaveZip(r.dir, rep); err == nil {
			fmt.Fprintln(r.out, file)
		}
	default:
		printMarkdown(r.out, export.Markdown(rep), r.raw)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// filter builds the list filter from the flags. A -from date turns the period into a custom
// range ending after the -to day.
func (r *reportCmd) filter(now time.Time) (transaction.ListFilter, error) {
	f := transaction.ListFilter{
		Visibility: transaction.Visibility(r.visibility),
		Channel:    transaction.ChannelFilter(r.channel),
		Status:     transaction.StatusFilter(r.status),
		Period:     transaction.Period(r.period),
	}

	if r.from == "" {
		if _, _, ok := f.Period.DateRange(now); !ok && f.Period != transaction.PeriodAllTime {
			return f, fmt.Errorf("unknown period %q", r.period)
		}

		return f, nil
	}

	start, err := time.ParseInLocation(time.DateOnly, r.from, time.Local)
	if err != nil {
		return f, fmt.Errorf("-from: invalid date %q", r.from)
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	if r.to != "" {
		if end, err = time.ParseInLocation(time.DateOnly, r.to, time.Local); err != nil {
			return f, fmt.Errorf("-to: invalid date %q", r.to)
		}
	}

	end = end.AddDate(0, 0, 1)
	f.Period = transaction.PeriodCustom
	f.StartDate = &start
	f.EndDate = &end

	return f, nil
}

func newExportService(db *sql.DB) *export.Service {
	holders := holder.NewService(holderStore.New(db))
	txs := transaction.NewService(txStore.New(db), holders, audit.NewService(auditStore.New(db)))

	return export.NewService(txs)
}
