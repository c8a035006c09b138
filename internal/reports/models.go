package reports

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmitReportRequest — request for POST /v1/reports/{uid}. All seven scores
// are on a 1–5 scale.
type SubmitReportRequest struct {
	ReportDate       string `json:"reportDate"` // YYYY-MM-DD, defaults to today
	OverallFeeling   int    `json:"overallFeeling"`
	EnergyLevels     int    `json:"energyLevels"`
	SleepQuality     int    `json:"sleepQuality"`
	StressLevels     int    `json:"stressLevels"`
	DietAdherence    int    `json:"dietAdherence"`
	PhysicalActivity int    `json:"physicalActivity"`
	DigestiveHealth  int    `json:"digestiveHealth"`
	Challenges       string `json:"challenges"`
	Improvements     string `json:"improvements"`
	Notes            string `json:"notes"`
}

// Validate checks the score ranges and the optional date format.
func (r SubmitReportRequest) Validate() error {
	scores := map[string]int{
		"overallFeeling":   r.OverallFeeling,
		"energyLevels":     r.EnergyLevels,
		"sleepQuality":     r.SleepQuality,
		"stressLevels":     r.StressLevels,
		"dietAdherence":    r.DietAdherence,
		"physicalActivity": r.PhysicalActivity,
		"digestiveHealth":  r.DigestiveHealth,
	}
	for name, score := range scores {
		if score < 1 || score > 5 {
			return fmt.Errorf("%w: %s must be between 1 and 5", ErrInvalidReport, name)
		}
	}

	if r.ReportDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReportDate); err != nil {
			return fmt.Errorf("%w: reportDate must be YYYY-MM-DD", ErrInvalidReport)
		}
	}
	return nil
}

// ReportDTO — API shape of a stored weekly report.
type ReportDTO struct {
	ID               uuid.UUID `json:"id"`
	ReportDate       time.Time `json:"reportDate"`
	OverallFeeling   int       `json:"overallFeeling"`
	EnergyLevels     int       `json:"energyLevels"`
	SleepQuality     int       `json:"sleepQuality"`
	StressLevels     int       `json:"stressLevels"`
	DietAdherence    int       `json:"dietAdherence"`
	PhysicalActivity int       `json:"physicalActivity"`
	DigestiveHealth  int       `json:"digestiveHealth"`
	Challenges       string    `json:"challenges"`
	Improvements     string    `json:"improvements"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ReportsResponse — response for GET /v1/reports/{uid}
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}
