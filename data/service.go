package data

import (
	"context"
	"time"

	"github.com/sebastien-chopin-dev/rne-dashboard/models"
)

// Service answers one query per chart. Each call re-reads the source
// through LoadFiltered; nothing is cached between calls.
type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{src: src, now: time.Now}
}

// WithClock returns a copy of s that computes ages against now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{src: s.src, now: now}
}

func (s *Service) Source() Source {
	return s.src
}

func (s *Service) Total(ctx context.Context, req models.DashboardRequest) (models.GenderCount, error) {
	records, err := LoadFiltered(ctx, s.src, req, models.ColGender)
	if err != nil {
		return models.GenderCount{}, err
	}
	return CountByGender(records), nil
}

func (s *Service) Proportion(ctx context.Context, req models.DashboardRequest) ([]models.GenderShare, error) {
	count, err := s.Total(ctx, req)
	if err != nil {
		return nil, err
	}
	return ShareByGender(count), nil
}

func (s *Service) Ages(ctx context.Context, req models.DashboardRequest, g models.Gender) ([]models.AgeBucket, error) {
	records, err := LoadFiltered(ctx, s.src, req, models.ColBirthDate, models.ColGender)
	if err != nil {
		return nil, err
	}
	return AgeDistribution(records, g, s.now()), nil
}

func (s *Service) Functions(ctx context.Context, req models.DashboardRequest, g models.Gender) ([]models.FunctionVolume, error) {
	records, err := LoadFiltered(ctx, s.src, req, models.ColFunction, models.ColGender)
	if err != nil {
		return nil, err
	}
	return FunctionVolumes(records, g, req.Function), nil
}

func (s *Service) Categories(ctx context.Context, req models.DashboardRequest, g models.Gender) ([]models.CategoryVolume, error) {
	records, err := LoadFiltered(ctx, s.src, req,
		models.ColCategoryCode, models.ColCategoryLabel, models.ColGender)
	if err != nil {
		return nil, err
	}
	return CategoryRanking(records, g, models.CategoryRankingLimit), nil
}

// Snapshot runs every query for req, in page order.
func (s *Service) Snapshot(ctx context.Context, req models.DashboardRequest) (models.Snapshot, error) {
	snap := models.Snapshot{Request: req}
	var err error

	if snap.Count, err = s.Total(ctx, req); err != nil {
		return snap, err
	}
	if snap.Shares, err = s.Proportion(ctx, req); err != nil {
		return snap, err
	}
	if snap.FunctionsMale, err = s.Functions(ctx, req, models.Male); err != nil {
		return snap, err
	}
	if snap.FunctionsFemale, err = s.Functions(ctx, req, models.Female); err != nil {
		return snap, err
	}
	if snap.AgesMale, err = s.Ages(ctx, req, models.Male); err != nil {
		return snap, err
	}
	if snap.AgesFemale, err = s.Ages(ctx, req, models.Female); err != nil {
		return snap, err
	}
	if snap.CategoriesMale, err = s.Categories(ctx, req, models.Male); err != nil {
		return snap, err
	}
	if snap.CategoriesFemale, err = s.Categories(ctx, req, models.Female); err != nil {
		return snap, err
	}
	return snap, nil
}
