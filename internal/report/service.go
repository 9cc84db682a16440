// Package report turns Kit subscriber and broadcast data into the
// growth and attribution summaries the dashboard shows.
package report

import (
	"context"
	"fmt"
	"math"

	"kitreport/internal/kit"
	"kitreport/pkg/dates"
	"kitreport/pkg/models"
)

type Service struct {
	Kit *kit.Client
}

func NewService(client *kit.Client) *Service {
	return &Service{Kit: client}
}

// Params selects what the subscriber report covers. Nil tag ids mean
// the source is not tracked and counts as organic.
type Params struct {
	FacebookTag  *models.TagID
	CreatorTag   *models.TagID
	SparkloopTag *models.TagID

	StartDate string
	EndDate   string

	// CurrentTotal is the present list size, fetched ahead of time by
	// the page handler.
	CurrentTotal int

	// Client enables the growth section when it has a valid start
	// date.
	Client *models.ClientRecord
}

// SubscriberReport computes window totals, per-source attribution and,
// when client settings allow, engagement growth comparisons.
func (s *Service) SubscriberReport(ctx context.Context, p Params) (*models.Report, error) {
	total, err := s.Kit.SubscriberCount(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("report: total count: %w", err)
	}

	facebook, err := s.taggedCount(ctx, p.FacebookTag, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("report: facebook count: %w", err)
	}
	creator, err := s.taggedCount(ctx, p.CreatorTag, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("report: creator count: %w", err)
	}
	sparkloop, err := s.taggedCount(ctx, p.SparkloopTag, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("report: sparkloop count: %w", err)
	}

	organic := total - facebook - creator - sparkloop
	paid := facebook + sparkloop

	rep := &models.Report{
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		TotalSubscribers:     total,
		FacebookSubscribers:  facebook,
		FacebookPercent:      percentOf(facebook, total),
		CreatorSubscribers:   creator,
		CreatorPercent:       percentOf(creator, total),
		SparkloopSubscribers: sparkloop,
		SparkloopPercent:     percentOf(sparkloop, total),
		OrganicSubscribers:   organic,
		OrganicPercent:       percentOf(organic, total),
		PaidSubscribers:      paid,
		PaidGrowthPercent:    percentOf(paid, total),
	}

	if err := s.fillGrowth(ctx, rep, p); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) fillGrowth(ctx context.Context, rep *models.Report, p Params) error {
	if p.Client == nil || p.Client.StartDate == "" {
		return nil
	}
	start, err := dates.Parse(p.Client.StartDate)
	if err != nil {
		return nil // unusable record, skip the section
	}

	periods := dates.EngagementPeriods(start,
		dates.BeforePeriodDays, dates.AfterPeriodStartDays, dates.AfterPeriodDays)

	beforeCount, err := s.Kit.SubscriberCount(ctx, periods.BeforeStart, periods.BeforeEnd)
	if err != nil {
		return fmt.Errorf("report: before-period count: %w", err)
	}
	afterCount, err := s.Kit.SubscriberCount(ctx, periods.AfterStart, periods.AfterEnd)
	if err != nil {
		return fmt.Errorf("report: after-period count: %w", err)
	}

	rep.HasGrowth = true
	rep.ClientStartDate = p.Client.StartDate
	rep.DailyAverageBefore = round1(float64(beforeCount) / float64(periods.BeforeDays))
	rep.DailyAverageAfter = round1(float64(afterCount) / float64(periods.AfterDays))
	rep.BeforePeriod = periods.BeforeStart + " to " + periods.BeforeEnd
	rep.AfterPeriod = periods.AfterStart + " to " + periods.AfterEnd

	rep.TotalGrowth = p.CurrentTotal - p.Client.InitialSubscribers
	if p.Client.InitialSubscribers > 0 {
		rep.GrowthRate = round1(float64(rep.TotalGrowth) / float64(p.Client.InitialSubscribers) * 100)
	}
	return nil
}

func (s *Service) taggedCount(ctx context.Context, id *models.TagID, start, end string) (int, error) {
	if id == nil || *id == "" {
		return 0, nil
	}
	subs, err := s.Kit.TaggedSubscribers(ctx, *id, start, end)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func percentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
