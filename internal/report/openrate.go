package report

import (
	"context"
	"fmt"

	"kitreport/pkg/models"
)

const perTagNote = "Kit does not expose per-tag open rates; the overall rate is shown as an estimate."

// OverallOpenRate aggregates per-broadcast stats for every broadcast
// published in the window.
func (s *Service) OverallOpenRate(ctx context.Context, start, end string) (*models.OpenRateStats, error) {
	broadcasts, err := s.Kit.Broadcasts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("open rates: broadcasts: %w", err)
	}

	stats := &models.OpenRateStats{}
	for _, b := range broadcasts {
		bs, err := s.Kit.BroadcastStats(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("open rates: broadcast %d stats: %w", b.ID, err)
		}

		opens := bs.Opens
		if bs.UniqueOpens != nil {
			opens = *bs.UniqueOpens
		}

		stats.TotalRecipients += bs.Recipients
		stats.TotalOpens += opens
		stats.TotalBroadcasts++
	}

	if stats.TotalRecipients > 0 {
		stats.AverageOpenRate = round1(float64(stats.TotalOpens) / float64(stats.TotalRecipients) * 100)
	}
	return stats, nil
}

// OpenRatesForTags builds the open-rate report for the selected tags.
// Every tag entry carries the overall rate as an estimate, since the
// upstream API has no per-tag breakdown.
func (s *Service) OpenRatesForTags(ctx context.Context, start, end string, tags []models.TagRef) (*models.OpenRateReport, error) {
	overall, err := s.OverallOpenRate(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byTag := make([]models.TagOpenRate, 0, len(tags))
	for _, tag := range tags {
		if tag.ID == "" {
			continue
		}
		byTag = append(byTag, models.TagOpenRate{
			TagID:           tag.ID,
			TagName:         tag.Name,
			AverageOpenRate: overall.AverageOpenRate,
			Note:            perTagNote,
		})
	}

	return &models.OpenRateReport{
		Overall:   *overall,
		ByTag:     byTag,
		StartDate: start,
		EndDate:   end,
		Note:      perTagNote,
	}, nil
}
