package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

// summaryWindow is how many recent reports feed the care summary.
const summaryWindow = 8

// Generator renders the PDF care summary a caregiver or doctor can print:
// profile, current nutrition targets and recent well-being trends.
type Generator struct {
	storage Store
}

func NewGenerator(st Store) *Generator {
	return &Generator{storage: st}
}

// GenerateCareSummary builds the PDF for a user.
func (g *Generator) GenerateCareSummary(ctx context.Context, uid string) ([]byte, error) {
	user, err := g.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reports, err := g.storage.ListWeeklyReports(ctx, uid, summaryWindow)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Care Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s    Age: %d    Gender: %s", user.Name, user.Age, user.Gender))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Goal: %s    Activity level: %s",
		nutrition.OrDefault(user.Goal), nutrition.OrDefault(user.ActivityLevel)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Health issues: %s", nutrition.OrDefault(user.HealthIssues)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Allergies: %s", nutrition.OrDefault(user.Allergies)))
	pdf.Ln(10)

	g.writeTargets(pdf, user)
	g.writeMedications(pdf, user)
	g.writeWellbeing(pdf, reports)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeTargets(pdf *gofpdf.Fpdf, user *storage.User) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Nutrition Targets")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(user.NutritionalNeeds) == 0 {
		pdf.Cell(0, 6, "No targets on record.")
		pdf.Ln(10)
		return
	}

	var needs nutrition.Needs
	if err := json.Unmarshal(user.NutritionalNeeds, &needs); err != nil {
		pdf.Cell(0, 6, "Stored targets could not be read.")
		pdf.Ln(10)
		return
	}

	pdf.Cell(0, 6, fmt.Sprintf("Daily calories: %d kcal (BMR %d, TDEE %d)",
		needs.TargetCalories, needs.BMR, needs.TDEE))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Protein: %d g    Carbs: %d g    Fats: %d g    Fiber: %d g",
		needs.MacroTargets.Protein, needs.MacroTargets.Carbs,
		needs.MacroTargets.Fats, needs.MacroTargets.Fiber))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Meals: breakfast %d / lunch %d / snacks %d / dinner %d kcal",
		needs.MealDistribution.Breakfast, needs.MealDistribution.Lunch,
		needs.MealDistribution.Snacks, needs.MealDistribution.Dinner))
	pdf.Ln(10)
}

func (g *Generator) writeMedications(pdf *gofpdf.Fpdf, user *storage.User) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Medications")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)

	var meds []nutrition.Medication
	if len(user.Medications) > 0 {
		if err := json.Unmarshal(user.Medications, &meds); err != nil {
			pdf.Cell(0, 6, "Stored medications could not be read.")
			pdf.Ln(10)
			return
		}
	}
	if len(meds) == 0 {
		pdf.Cell(0, 6, "None on record.")
		pdf.Ln(10)
		return
	}

	for _, med := range meds {
		food := "without food"
		if med.WithFood {
			food = "with food"
		}
		pdf.Cell(0, 6, fmt.Sprintf("- %s (%s), %s, %s", med.Name, med.Dosage, med.Timing, food))
		pdf.Ln(5)
	}
	pdf.Ln(5)
}

func (g *Generator) writeWellbeing(pdf *gofpdf.Fpdf, reports []storage.WeeklyReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Recent Well-being")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(reports) == 0 {
		pdf.Cell(0, 6, "No weekly reports submitted yet.")
		pdf.Ln(5)
		return
	}

	avg := averageScores(reports)
	pdf.Cell(0, 6, fmt.Sprintf("Averages over the last %d report(s), 1-5 scale:", len(reports)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Overall %.1f    Energy %.1f    Sleep %.1f    Stress %.1f",
		avg.overall, avg.energy, avg.sleep, avg.stress))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Diet adherence %.1f    Activity %.1f    Digestion %.1f",
		avg.diet, avg.activity, avg.digestion))
	pdf.Ln(8)

	latest := reports[len(reports)-1]
	pdf.Cell(0, 6, fmt.Sprintf("Latest report (%s):", latest.ReportDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Challenges: %s", nutrition.OrDefault(latest.Challenges)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Improvements: %s", nutrition.OrDefault(latest.Improvements)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Notes: %s", nutrition.OrDefault(latest.Notes)))
	pdf.Ln(5)
}

type scoreAverages struct {
	overall, energy, sleep, stress, diet, activity, digestion float64
}

func averageScores(reports []storage.WeeklyReport) scoreAverages {
	var sum scoreAverages
	for _, r := range reports {
		sum.overall += float64(r.OverallFeeling)
		sum.energy += float64(r.EnergyLevels)
		sum.sleep += float64(r.SleepQuality)
		sum.stress += float64(r.StressLevels)
		sum.diet += float64(r.DietAdherence)
		sum.activity += float64(r.PhysicalActivity)
		sum.digestion += float64(r.DigestiveHealth)
	}

	n := float64(len(reports))
	return scoreAverages{
		overall:   sum.overall / n,
		energy:    sum.energy / n,
		sleep:     sum.sleep / n,
		stress:    sum.stress / n,
		diet:      sum.diet / n,
		activity:  sum.activity / n,
		digestion: sum.digestion / n,
	}
}
