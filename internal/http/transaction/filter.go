package transaction

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

// FilterFromQuery reads a list filter from query parameters. Explicit dates without a period
// imply a custom period; end_date is inclusive.
func FilterFromQuery(q url.Values) (transaction.ListFilter, error) {
	var f transaction.ListFilter

	if s := q.Get("visibility"); s != "" {
		f.Visibility = transaction.Visibility(s)
		if !slices.Contains([]transaction.Visibility{
			transaction.VisibilityAll, transaction.VisibilityPrivate, transaction.VisibilityPublic,
		}, f.Visibility) {
			return f, fmt.Errorf("unknown visibility %q", s)
		}
	}

	if s := q.Get("channel"); s != "" {
		f.Channel = transaction.ChannelFilter(s)
		if !slices.Contains([]transaction.ChannelFilter{
			transaction.ChannelAll, transaction.ChannelOnlyCash, transaction.ChannelOnlyBank, transaction.ChannelOnlyHybrid,
		}, f.Channel) {
			return f, fmt.Errorf("unknown channel %q", s)
		}
	}

	if s := q.Get("status"); s != "" {
		f.Status = transaction.StatusFilter(s)
		if !slices.Contains([]transaction.StatusFilter{
			transaction.StatusAll, transaction.StatusActive, transaction.StatusOnlyComplete,
		}, f.Status) {
			return f, fmt.Errorf("unknown status %q", s)
		}
	}

	if s := q.Get("period"); s != "" {
		f.Period = transaction.Period(s)
		if !slices.Contains(transaction.Periods, f.Period) {
			return f, fmt.Errorf("unknown period %q", s)
		}
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return f, fmt.Errorf("invalid start_date %q", s)
		}

		f.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return f, fmt.Errorf("invalid end_date %q", s)
		}

		end := t.AddDate(0, 0, 1)
		f.EndDate = &end
	}

	if f.Period == "" && (f.StartDate != nil || f.EndDate != nil) {
		f.Period = transaction.PeriodCustom
	}

	if s := q.Get("holder_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, fmt.Errorf("invalid holder_id %q", s)
		}

		f.HolderID = &id
	}

	return f, nil
}
