// Package dates resolves implicit and explicit requests into business-day ranges
package dates

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

// DateRange is an inclusive calendar-day span.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SkippedDate records one requested date that fell on a weekend or public
// holiday, with the message the agent surfaces to the user.
type SkippedDate struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// Resolver converts "last N" and explicit ranges into concrete business-day
// dates using the holiday calendar.
type Resolver struct {
	holidays interfaces.HolidayCalendar
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewResolver creates a date range resolver.
func NewResolver(holidays interfaces.HolidayCalendar, logger *common.Logger) *Resolver {
	return &Resolver{
		holidays: holidays,
		logger:   logger,
		now:      time.Now,
	}
}

// IsBusinessDay reports whether the date is neither a weekend day nor a
// recognized public holiday.
func (r *Resolver) IsBusinessDay(ctx context.Context, date time.Time) (bool, error) {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, nil
	}
	isHoliday, err := r.holidays.IsHoliday(ctx, date)
	if err != nil {
		return false, err
	}
	return !isHoliday, nil
}

// LastNBusinessDays walks backward one calendar day at a time from yesterday,
// collecting business days until exactly n are found. The earliest collected
// date is the start, the latest the end, both inclusive.
func (r *Resolver) LastNBusinessDays(ctx context.Context, n int) (*DateRange, error) {
	if n <= 0 {
		return nil, &models.InvalidRangeError{
			Message: fmt.Sprintf("last_n_dates must be positive, got %d", n),
		}
	}

	day := truncateDay(r.now()).AddDate(0, 0, -1)
	var newest, oldest time.Time

	for remaining := n; remaining > 0; day = day.AddDate(0, 0, -1) {
		ok, err := r.IsBusinessDay(ctx, day)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if newest.IsZero() {
			newest = day
		}
		oldest = day
		remaining--
	}

	return &DateRange{
		StartDate: oldest.Format(models.DateLayout),
		EndDate:   newest.Format(models.DateLayout),
	}, nil
}

// SkipNonBusinessDays shifts an explicit end date forward until it lands on a
// business day, recording each skipped date. Calling it on a business day
// returns the date unchanged with an empty skip list. The forward shift
// silently changes the meaning of a user-supplied end date, so callers must
// surface the skip list.
func (r *Resolver) SkipNonBusinessDays(ctx context.Context, endDate string) (string, []SkippedDate, error) {
	day, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return "", nil, &models.InvalidRangeError{
			Message: fmt.Sprintf("invalid end date %q: expected %s", endDate, models.DateLayout),
		}
	}

	var skipped []SkippedDate
	for {
		ok, err := r.IsBusinessDay(ctx, day)
		if err != nil {
			return "", nil, err
		}
		if ok {
			break
		}
		formatted := day.Format(models.DateLayout)
		skipped = append(skipped, SkippedDate{
			Date:    formatted,
			Message: fmt.Sprintf("%s is either weekend or holiday", formatted),
		})
		day = day.AddDate(0, 0, 1)
	}

	if len(skipped) > 0 {
		r.logger.Debug().
			Str("requested", endDate).
			Str("adjusted", day.Format(models.DateLayout)).
			Int("skipped", len(skipped)).
			Msg("End date shifted to next business day")
	}

	return day.Format(models.DateLayout), skipped, nil
}

// ValidateRange checks an explicit start/end pair for inversion.
func (r *Resolver) ValidateRange(startDate, endDate string) error {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return &models.InvalidRangeError{
			Message: fmt.Sprintf("invalid start date %q: expected %s", startDate, models.DateLayout),
		}
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return &models.InvalidRangeError{
			Message: fmt.Sprintf("invalid end date %q: expected %s", endDate, models.DateLayout),
		}
	}
	if end.Before(start) {
		return &models.InvalidRangeError{
			Message: fmt.Sprintf("end date %s precedes start date %s", endDate, startDate),
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
