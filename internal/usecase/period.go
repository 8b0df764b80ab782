package usecase

import (
	"time"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
)

// monthlyAfterDays is the custom span beyond which the trend switches to month buckets.
const monthlyAfterDays = 60

// ResolvePeriod turns a period token into a concrete window ending at now.
func ResolvePeriod(q model.DashboardQuery, now time.Time, loc *time.Location) (model.ReportWindow, error) {
	period, err := model.ParsePeriod(q.Period)
	if err != nil {
		return model.ReportWindow{}, err
	}

	now = now.In(loc)
	window := model.ReportWindow{Period: period, Granularity: model.GranularityDay}

	switch period {
	case model.PeriodDay:
		window.Range = model.TimeRange{From: model.StartOfDay(now, loc), To: now}
	case model.PeriodWeek:
		window.Range = model.TimeRange{From: model.StartOfDay(now.AddDate(0, 0, -7), loc), To: now}
	case model.PeriodMonth:
		window.Range = model.TimeRange{From: model.StartOfDay(now.AddDate(0, -1, 0), loc), To: now}
	case model.PeriodYear:
		window.Range = model.TimeRange{From: model.StartOfDay(now.AddDate(-1, 0, 0), loc), To: now}
		window.Granularity = model.GranularityMonth
	case model.PeriodCustom:
		if q.StartDate == "" || q.EndDate == "" {
			return model.ReportWindow{}, domainErrors.Invalidf(domainErrors.ErrInvalidDate, "custom period requires startDate and endDate")
		}
		start, err := model.ParseDate(q.StartDate, loc)
		if err != nil {
			return model.ReportWindow{}, err
		}
		end, err := model.ParseDate(q.EndDate, loc)
		if err != nil {
			return model.ReportWindow{}, err
		}
		if start.After(end) {
			return model.ReportWindow{}, domainErrors.Invalidf(domainErrors.ErrInvalidDateRange, "startDate %s is after endDate %s", q.StartDate, q.EndDate)
		}
		window.Range = model.TimeRange{From: start, To: model.EndOfDay(end, loc)}
		if spanDays(start, window.Range.To) > monthlyAfterDays {
			window.Granularity = model.GranularityMonth
		}
	}

	return window, nil
}

// spanDays counts started 24h periods between two instants.
func spanDays(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
