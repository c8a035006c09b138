package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (p *PostgresStorage) InsertWeeklyReport(ctx context.Context, report *storage.WeeklyReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO weekly_reports (
			id, uid, report_date, overall_feeling, energy_levels,
			sleep_quality, stress_levels, diet_adherence, physical_activity,
			digestive_health, challenges, improvements, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := p.pool.Exec(ctx, query,
		report.ID, report.UID, report.ReportDate,
		report.OverallFeeling, report.EnergyLevels, report.SleepQuality,
		report.StressLevels, report.DietAdherence, report.PhysicalActivity,
		report.DigestiveHealth, report.Challenges, report.Improvements,
		report.Notes, report.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) ListWeeklyReports(ctx context.Context, uid string, limit int) ([]storage.WeeklyReport, error) {
	query := `
		SELECT id, uid, report_date, overall_feeling, energy_levels,
		       sleep_quality, stress_levels, diet_adherence, physical_activity,
		       digestive_health, challenges, improvements, notes, created_at
		FROM weekly_reports
		WHERE uid = $1
		ORDER BY report_date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []storage.WeeklyReport
	for rows.Next() {
		var r storage.WeeklyReport
		if err := rows.Scan(
			&r.ID, &r.UID, &r.ReportDate,
			&r.OverallFeeling, &r.EnergyLevels, &r.SleepQuality,
			&r.StressLevels, &r.DietAdherence, &r.PhysicalActivity,
			&r.DigestiveHealth, &r.Challenges, &r.Improvements,
			&r.Notes, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports, nil
}
