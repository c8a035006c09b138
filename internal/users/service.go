package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/planner"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrDuplicate  = errors.New("user already exists")
	ErrValidation = errors.New("missing required fields")
)

// Service handles care-recipient records and the plan lifecycle attached to
// them. Every plan-touching operation goes through the planner; storage never
// recomputes anything on its own.
type Service struct {
	storage storage.UsersStorage
	planner *planner.Service
	now     func() time.Time
}

func NewService(st storage.UsersStorage, pl *planner.Service) *Service {
	return &Service{
		storage: st,
		planner: pl,
		now:     time.Now,
	}
}

// Register validates the request, generates the initial weekly plan and
// persists the record with plan and needs attached. A planner failure fails
// the registration; no partial record is written.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bundle, err := s.planner.GenerateInitialPlan(ctx, req.Profile())
	if err != nil {
		return nil, err
	}

	planJSON, needsJSON, err := marshalBundle(bundle)
	if err != nil {
		return nil, err
	}

	medsJSON, err := json.Marshal(req.Medications)
	if err != nil {
		return nil, fmt.Errorf("marshal medications: %w", err)
	}

	now := s.now().UTC()
	user := &storage.User{
		UID:                 req.UID,
		PhoneNo:             req.PhoneNo,
		Email:               req.Email,
		Name:                req.Name,
		Age:                 req.Age,
		WeightKg:            req.Weight,
		HeightCm:            req.Height,
		Gender:              req.Gender,
		HealthIssues:        req.HealthIssues,
		Allergies:           req.Allergies,
		Cuisines:            req.Cuisines,
		Goal:                req.Goal,
		DoctorNo:            req.DoctorNo,
		ExtraInfo:           req.ExtraInfo,
		BirthDate:           req.BirthDate,
		ActivityLevel:       req.ActivityLevel,
		DietaryRestrictions: req.DietaryRestrictions,
		MealPreferences:     req.MealPreferences,
		Medications:         medsJSON,
		MealPlan:            planJSON,
		NutritionalNeeds:    needsJSON,
		LastPlanUpdate:      &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	dto := toDTO(user)
	return &dto, nil
}

// Get returns the stored record by uid.
func (s *Service) Get(ctx context.Context, uid string) (*UserDTO, error) {
	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dto := toDTO(user)
	return &dto, nil
}

// Update applies the supplied fields. When a calculation input changes (age,
// weight, height, gender, goal, activity level) the nutritional needs are
// recomputed and stored; the meal plan itself is left alone — regeneration is
// a separate, explicit call.
func (s *Service) Update(ctx context.Context, uid string, req UpdateRequest) (*UserDTO, error) {
	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	applyUpdate(user, req)

	if req.touchesNeeds() {
		profile, err := ProfileFromUser(user)
		if err != nil {
			return nil, err
		}

		needs, err := nutrition.Compute(profile)
		if err != nil {
			return nil, err
		}
		needs.LastCalculated = s.now().UTC()

		needsJSON, err := json.Marshal(needs)
		if err != nil {
			return nil, fmt.Errorf("marshal needs: %w", err)
		}
		user.NutritionalNeeds = needsJSON
	}

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dto := toDTO(user)
	return &dto, nil
}

// ReplaceMedications swaps the whole medication batch and regenerates the
// plan against it. The batch is validated before any completion call; a bad
// record leaves the stored plan and medications untouched.
func (s *Service) ReplaceMedications(ctx context.Context, uid string, meds []nutrition.Medication) (*UserDTO, error) {
	if err := planner.ValidateMedications(meds); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile, err := ProfileFromUser(user)
	if err != nil {
		return nil, err
	}

	bundle, err := s.planner.RegeneratePlan(ctx, profile, planner.ChangeRequest{Medications: &meds})
	if err != nil {
		return nil, err
	}

	planJSON, needsJSON, err := marshalBundle(bundle)
	if err != nil {
		return nil, err
	}

	medsJSON, err := json.Marshal(meds)
	if err != nil {
		return nil, fmt.Errorf("marshal medications: %w", err)
	}

	now := s.now().UTC()
	user.Medications = medsJSON
	user.MealPlan = planJSON
	user.NutritionalNeeds = needsJSON
	user.LastPlanUpdate = &now

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	dto := toDTO(user)
	return &dto, nil
}

// RegeneratePlan builds a fresh plan from the stored profile plus any
// overrides in the change request and persists the result.
func (s *Service) RegeneratePlan(ctx context.Context, uid string, change planner.ChangeRequest) (*UserDTO, error) {
	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile, err := ProfileFromUser(user)
	if err != nil {
		return nil, err
	}

	bundle, err := s.planner.RegeneratePlan(ctx, profile, change)
	if err != nil {
		return nil, err
	}

	planJSON, needsJSON, err := marshalBundle(bundle)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SavePlan(ctx, uid, planJSON, needsJSON, s.now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, uid)
}

// ProfileFromUser rebuilds the calculator input from a stored record.
func ProfileFromUser(u *storage.User) (nutrition.Profile, error) {
	var meds []nutrition.Medication
	if len(u.Medications) > 0 {
		if err := json.Unmarshal(u.Medications, &meds); err != nil {
			return nutrition.Profile{}, fmt.Errorf("unmarshal medications: %w", err)
		}
	}

	return nutrition.Profile{
		Age:                 u.Age,
		WeightKg:            u.WeightKg,
		HeightCm:            u.HeightCm,
		Gender:              u.Gender,
		HealthIssues:        u.HealthIssues,
		Allergies:           u.Allergies,
		Cuisines:            u.Cuisines,
		Goal:                u.Goal,
		ActivityLevel:       u.ActivityLevel,
		DietaryRestrictions: u.DietaryRestrictions,
		MealPreferences:     u.MealPreferences,
		Medications:         meds,
	}, nil
}

func applyUpdate(user *storage.User, req UpdateRequest) {
	if req.PhoneNo != nil {
		user.PhoneNo = *req.PhoneNo
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Weight != nil {
		user.WeightKg = *req.Weight
	}
	if req.Height != nil {
		user.HeightCm = *req.Height
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.HealthIssues != nil {
		user.HealthIssues = *req.HealthIssues
	}
	if req.Allergies != nil {
		user.Allergies = *req.Allergies
	}
	if req.Cuisines != nil {
		user.Cuisines = *req.Cuisines
	}
	if req.Goal != nil {
		user.Goal = *req.Goal
	}
	if req.DoctorNo != nil {
		user.DoctorNo = *req.DoctorNo
	}
	if req.ExtraInfo != nil {
		user.ExtraInfo = *req.ExtraInfo
	}
	if req.BirthDate != nil {
		user.BirthDate = *req.BirthDate
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = *req.ActivityLevel
	}
	if req.DietaryRestrictions != nil {
		user.DietaryRestrictions = *req.DietaryRestrictions
	}
	if req.MealPreferences != nil {
		user.MealPreferences = *req.MealPreferences
	}
}

func marshalBundle(bundle *planner.PlanBundle) (planJSON, needsJSON []byte, err error) {
	planJSON, err = json.Marshal(bundle.MealPlan)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal meal plan: %w", err)
	}
	needsJSON, err = json.Marshal(bundle.Needs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal needs: %w", err)
	}
	return planJSON, needsJSON, nil
}
