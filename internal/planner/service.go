package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/plan"
	"github.com/nvarma/eldercare-hub/internal/prompts"
)

var (
	// ErrInvalidMedication indicates a medication batch with a record missing
	// name, timing or dosage. The batch is rejected whole.
	ErrInvalidMedication = errors.New("invalid medication")

	// ErrGenerationFailed wraps completion-service and parsing failures for
	// callers that only need a single plan-generation outcome.
	ErrGenerationFailed = errors.New("meal plan generation failed")
)

// Service orchestrates plan generation: compute targets, build the prompt,
// make the one completion call, parse the result. It retains no state between
// calls and never retries — retry policy belongs to the caller.
type Service struct {
	client ai.Client
	now    func() time.Time
}

func NewService(client ai.Client) *Service {
	return &Service{
		client: client,
		now:    time.Now,
	}
}

// GenerateInitialPlan computes nutritional needs for the profile and asks the
// completion service for a full weekly plan. Validation failures surface
// before any external call; generation failures wrap ErrGenerationFailed.
func (s *Service) GenerateInitialPlan(ctx context.Context, profile nutrition.Profile) (*PlanBundle, error) {
	if err := ValidateMedications(profile.Medications); err != nil {
		return nil, err
	}

	needs, err := nutrition.Compute(profile)
	if err != nil {
		return nil, err
	}
	needs.LastCalculated = s.now().UTC()

	prompt := prompts.InitialPlan(profile, needs)

	raw, err := s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	mealPlan, err := plan.ParseMealPlan(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &PlanBundle{
		MealPlan: mealPlan,
		Needs:    needs,
	}, nil
}

// RegeneratePlan folds the change request into the profile and generates a
// fresh plan. A supplied medication batch is validated before anything else
// so a bad record never costs a model invocation.
func (s *Service) RegeneratePlan(ctx context.Context, profile nutrition.Profile, change ChangeRequest) (*PlanBundle, error) {
	if change.Medications != nil {
		if err := ValidateMedications(*change.Medications); err != nil {
			return nil, err
		}
	}

	return s.GenerateInitialPlan(ctx, change.fold(profile))
}

// ValidateMedications checks every record in a batch for non-empty name,
// timing and dosage. The first failing index rejects the whole batch; there
// is no per-record partial acceptance.
func ValidateMedications(meds []nutrition.Medication) error {
	for i, med := range meds {
		if strings.TrimSpace(med.Name) == "" {
			return fmt.Errorf("%w: medication[%d]: name is required", ErrInvalidMedication, i)
		}
		if strings.TrimSpace(med.Timing) == "" {
			return fmt.Errorf("%w: medication[%d]: timing is required", ErrInvalidMedication, i)
		}
		if strings.TrimSpace(med.Dosage) == "" {
			return fmt.Errorf("%w: medication[%d]: dosage is required", ErrInvalidMedication, i)
		}
	}
	return nil
}
