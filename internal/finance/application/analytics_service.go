package application

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type AnalyticsService interface {
	Summary(ctx context.Context, ownerID, period string) ([]domain.TimeBucket, int, error)
	Categories(ctx context.Context, ownerID string) ([]domain.CategoryRollup, int, error)
	Total(ctx context.Context, ownerID string) (domain.GrandTotal, int, error)
}

type analyticsService struct {
	source domain.RecordSource
	policy domain.MalformedPolicy
	logger logrus.FieldLogger
}

func NewAnalyticsService(source domain.RecordSource, policy domain.MalformedPolicy, logger logrus.FieldLogger) AnalyticsService {
	return &analyticsService{
		source: source,
		policy: policy,
		logger: logger.WithField("component", "analytics"),
	}
}

func (s *analyticsService) Summary(ctx context.Context, ownerID, period string) ([]domain.TimeBucket, int, error) {
	granularity, err := domain.ParseGranularity(period)
	if err != nil {
		return nil, 0, err
	}
	rollups, err := s.aggregate(ctx, ownerID, granularity)
	if err != nil {
		return nil, 0, err
	}
	return rollups.Buckets, rollups.Skipped, nil
}

// Categories and Total do not depend on the bucket resolution, Day is used.
func (s *analyticsService) Categories(ctx context.Context, ownerID string) ([]domain.CategoryRollup, int, error) {
	rollups, err := s.aggregate(ctx, ownerID, domain.Day)
	if err != nil {
		return nil, 0, err
	}
	return rollups.Categories, rollups.Skipped, nil
}

func (s *analyticsService) Total(ctx context.Context, ownerID string) (domain.GrandTotal, int, error) {
	rollups, err := s.aggregate(ctx, ownerID, domain.Day)
	if err != nil {
		return domain.GrandTotal{}, 0, err
	}
	return rollups.Total, rollups.Skipped, nil
}

func (s *analyticsService) aggregate(ctx context.Context, ownerID string, granularity domain.Granularity) (domain.Rollups, error) {
	log := s.logger.WithFields(logrus.Fields{"owner_id": ownerID, "granularity": granularity.String()})

	if streamer, ok := s.source.(domain.RecordStreamer); ok {
		acc := NewAccumulator(granularity, s.policy)
		var qualityErr error
		err := streamer.StreamRecords(ctx, ownerID, func(expense domain.Expense) error {
			if err := acc.Add(expense); err != nil {
				qualityErr = err
				return err
			}
			return nil
		})
		if qualityErr != nil {
			log.WithError(qualityErr).Warn("aggregation stopped on malformed record")
			return domain.Rollups{}, qualityErr
		}
		if err != nil {
			return domain.Rollups{}, financeErrors.NewStoreError("stream records", err)
		}
		log.Debug("aggregated streamed records")
		return acc.Result(), nil
	}

	records, err := s.source.FetchRecords(ctx, ownerID)
	if err != nil {
		return domain.Rollups{}, financeErrors.NewStoreError("fetch records", err)
	}
	rollups, err := Aggregate(records, granularity, s.policy)
	if err != nil {
		log.WithError(err).Warn("aggregation stopped on malformed record")
		return domain.Rollups{}, err
	}
	log.WithField("records", len(records)).Debug("aggregated fetched records")
	return rollups, nil
}
