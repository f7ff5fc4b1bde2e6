package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Visibility filters on the private flag.
type Visibility string

const (
	VisibilityAll     Visibility = "all"
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ChannelFilter filters on Record.Channel.
type ChannelFilter string

const (
	ChannelAll        ChannelFilter = "all"
	ChannelOnlyCash   ChannelFilter = "cash"
	ChannelOnlyBank   ChannelFilter = "bank"
	ChannelOnlyHybrid ChannelFilter = "hybrid"
)

// StatusFilter filters on status groups.
type StatusFilter string

const (
	StatusAll StatusFilter = "all"
	// StatusActive is planned and in-progress records.
	StatusActive       StatusFilter = "active"
	StatusOnlyComplete StatusFilter = "complete"
)

// Period is a creation-date preset.
type Period string

const (
	PeriodAllTime   Period = "all"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodCustom    Period = "custom"
)

// Periods lists the presets in display order.
var Periods = []Period{PeriodAllTime, PeriodToday, PeriodYesterday, PeriodThisMonth, PeriodLastMonth, PeriodCustom}

func (p Period) String() string {
	switch p {
	case PeriodAllTime, "":
		return "All Time"
	case PeriodToday:
		return "Today"
	case PeriodYesterday:
		return "Yesterday"
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// DateRange returns the [start, end) bounds of p relative to now.
// ok is false for all-time and custom, which carry no implicit bounds.
func (p Period) DateRange(now time.Time) (start, end time.Time, ok bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodToday:
		return day, day.AddDate(0, 0, 1), true
	case PeriodYesterday:
		return day.AddDate(0, 0, -1), day, true
	case PeriodThisMonth:
		return month, month.AddDate(0, 1, 0), true
	case PeriodLastMonth:
		return month.AddDate(0, -1, 0), month, true
	}

	return time.Time{}, time.Time{}, false
}

// ListFilter is the view configuration of a transaction list. The zero value matches everything.
type ListFilter struct {
	Visibility Visibility    `json:"visibility,omitempty"`
	Channel    ChannelFilter `json:"channel,omitempty"`
	Status     StatusFilter  `json:"status,omitempty"`
	Period     Period        `json:"period,omitempty"`
	// StartDate and EndDate bound created_at as [StartDate, EndDate). Only custom periods
	// persist them; presets are resolved at query time.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	HolderID  *uuid.UUID `json:"holder_id,omitempty"`
}

// Resolved returns a copy with preset periods turned into explicit dates.
func (f ListFilter) Resolved(now time.Time) ListFilter {
	switch f.Period {
	case PeriodCustom:
		return f
	case PeriodAllTime, "":
		f.StartDate = nil
		f.EndDate = nil

		return f
	}

	if start, end, ok := f.Period.DateRange(now); ok {
		f.StartDate = &start
		f.EndDate = &end
	}

	return f
}

// Match reports whether r passes the filter. Dates must already be resolved.
func (f ListFilter) Match(r *Record) bool {
	switch f.Visibility {
	case VisibilityPrivate:
		if !r.IsPrivate {
			return false
		}
	case VisibilityPublic:
		if r.IsPrivate {
			return false
		}
	}

	switch f.Channel {
	case ChannelOnlyCash, ChannelOnlyBank, ChannelOnlyHybrid:
		if Channel(f.Channel) != r.Channel() {
			return false
		}
	}

	switch f.Status {
	case StatusActive:
		if r.Status != StatusPlanned && r.Status != StatusInProgress {
			return false
		}
	case StatusOnlyComplete:
		if r.Status != StatusComplete {
			return false
		}
	}

	if f.StartDate != nil && r.CreatedAt.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && !r.CreatedAt.Before(*f.EndDate) {
		return false
	}

	if f.HolderID != nil && (r.HolderID == nil || *r.HolderID != *f.HolderID) {
		return false
	}

	return true
}
