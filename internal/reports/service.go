package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

var (
	ErrInvalidReport = errors.New("invalid report")
	ErrUserNotFound  = errors.New("user not found")
)

// listLimit caps how many reports a single list call returns.
const listLimit = 52

// Store is the persistence surface the reports service needs.
type Store interface {
	storage.UsersStorage
	storage.ReportsStorage
}

// Service handles weekly well-being reports.
type Service struct {
	storage Store
	now     func() time.Time
}

func NewService(st Store) *Service {
	return &Service{
		storage: st,
		now:     time.Now,
	}
}

// Submit validates and stores a weekly report for the user.
func (s *Service) Submit(ctx context.Context, uid string, req SubmitReportRequest) (*ReportDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetUser(ctx, uid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reportDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.ReportDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReportDate)
		if err != nil {
			return nil, ErrInvalidReport
		}
		reportDate = parsed
	}

	report := &storage.WeeklyReport{
		ID:               uuid.New(),
		UID:              uid,
		ReportDate:       reportDate,
		OverallFeeling:   req.OverallFeeling,
		EnergyLevels:     req.EnergyLevels,
		SleepQuality:     req.SleepQuality,
		StressLevels:     req.StressLevels,
		DietAdherence:    req.DietAdherence,
		PhysicalActivity: req.PhysicalActivity,
		DigestiveHealth:  req.DigestiveHealth,
		Challenges:       req.Challenges,
		Improvements:     req.Improvements,
		Notes:            req.Notes,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.storage.InsertWeeklyReport(ctx, report); err != nil {
		return nil, err
	}

	dto := toDTO(*report)
	return &dto, nil
}

// List returns the user's reports in chronological order.
func (s *Service) List(ctx context.Context, uid string) ([]ReportDTO, error) {
	if _, err := s.storage.GetUser(ctx, uid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reports, err := s.storage.ListWeeklyReports(ctx, uid, listLimit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReportDTO, 0, len(reports))
	for _, r := range reports {
		dtos = append(dtos, toDTO(r))
	}
	return dtos, nil
}

func toDTO(r storage.WeeklyReport) ReportDTO {
	return ReportDTO{
		ID:               r.ID,
		ReportDate:       r.ReportDate,
		OverallFeeling:   r.OverallFeeling,
		EnergyLevels:     r.EnergyLevels,
		SleepQuality:     r.SleepQuality,
		StressLevels:     r.StressLevels,
		DietAdherence:    r.DietAdherence,
		PhysicalActivity: r.PhysicalActivity,
		DigestiveHealth:  r.DigestiveHealth,
		Challenges:       r.Challenges,
		Improvements:     r.Improvements,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
	}
}
