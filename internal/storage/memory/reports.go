package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (m *MemoryStorage) InsertWeeklyReport(ctx context.Context, report *storage.WeeklyReport) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	m.reports[report.UID] = append(m.reports[report.UID], *report)
	return nil
}

func (m *MemoryStorage) ListWeeklyReports(ctx context.Context, uid string, limit int) ([]storage.WeeklyReport, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]storage.WeeklyReport, len(m.reports[uid]))
	copy(all, m.reports[uid])

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].ReportDate.Equal(all[j].ReportDate) {
			return all[i].ReportDate.Before(all[j].ReportDate)
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
