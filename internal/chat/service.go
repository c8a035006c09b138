package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/plan"
	"github.com/nvarma/eldercare-hub/internal/prompts"
	"github.com/nvarma/eldercare-hub/internal/storage"
	"github.com/nvarma/eldercare-hub/internal/users"
)

var (
	ErrEmptyMessage = errors.New("message cannot be empty")
	ErrUserNotFound = errors.New("user not found")
)

// wellbeingReportWindow is how many recent reports feed the general-chat
// context block.
const wellbeingReportWindow = 4

// Store is the persistence surface the chat service needs.
type Store interface {
	storage.UsersStorage
	storage.ChatStorage
	storage.ReportsStorage
}

// Service routes an incoming message to its intent handler, makes the one
// completion call for it and persists both conversation turns.
type Service struct {
	storage      Store
	client       ai.Client
	router       Router
	historyLimit int
	now          func() time.Time
}

func NewService(st Store, client ai.Client, historyLimit int) *Service {
	return &Service{
		storage:      st,
		client:       client,
		router:       SubstringRouter{},
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// SendMessage classifies the message, runs the matching prompt/parse pair and
// returns the assistant's reply. Both turns are stored; a failed completion
// stores nothing for the assistant side.
func (s *Service) SendMessage(ctx context.Context, uid, message string) (*SendMessageResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.storage.InsertMessage(ctx, uid, "user", message); err != nil {
		return nil, err
	}

	intent := s.router.Classify(message)

	var resp *SendMessageResponse
	switch intent.Kind {
	case IntentDocumentAnalysis:
		resp, err = s.analyzeDocument(ctx, user, intent.Payload)
	case IntentMealModification:
		resp, err = s.modifyMeal(ctx, user, intent.Payload)
	default:
		resp, err = s.generalChat(ctx, user, intent.Payload)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.InsertMessage(ctx, uid, "assistant", resp.Response); err != nil {
		return nil, err
	}

	return resp, nil
}

// History returns the most recent conversation window in chronological order.
func (s *Service) History(ctx context.Context, uid string) ([]MessageDTO, error) {
	if _, err := s.storage.GetUser(ctx, uid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	messages, err := s.storage.ListMessages(ctx, uid, s.historyLimit)
	if err != nil {
		return nil, err
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, MessageDTO{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *Service) analyzeDocument(ctx context.Context, user *storage.User, extractedText string) (*SendMessageResponse, error) {
	profile, err := users.ProfileFromUser(user)
	if err != nil {
		return nil, err
	}

	system := prompts.DocumentAnalysis(extractedText, user.Name, &profile)

	reply, err := s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompts.DocumentAnalysisUserMessage},
		},
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{Intent: IntentDocumentAnalysis, Response: reply}, nil
}

func (s *Service) modifyMeal(ctx context.Context, user *storage.User, request string) (*SendMessageResponse, error) {
	profile, err := users.ProfileFromUser(user)
	if err != nil {
		return nil, err
	}

	needs, err := s.currentNeeds(user, profile)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Modification(user.Name, profile, needs, request)

	raw, err := s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	result, err := plan.ParseModification(raw)
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		Intent:        IntentMealModification,
		Response:      raw,
		Modifications: result,
	}, nil
}

func (s *Service) generalChat(ctx context.Context, user *storage.User, question string) (*SendMessageResponse, error) {
	profile, err := users.ProfileFromUser(user)
	if err != nil {
		return nil, err
	}

	var mealPlan *plan.MealPlan
	if len(user.MealPlan) > 0 {
		mealPlan = &plan.MealPlan{}
		if err := json.Unmarshal(user.MealPlan, mealPlan); err != nil {
			return nil, fmt.Errorf("unmarshal stored meal plan: %w", err)
		}
	}

	stored, err := s.storage.ListWeeklyReports(ctx, user.UID, wellbeingReportWindow)
	if err != nil {
		return nil, err
	}
	reports := make([]prompts.WellbeingReport, 0, len(stored))
	for _, r := range stored {
		reports = append(reports, prompts.WellbeingReport{
			Date:             r.ReportDate,
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
		})
	}

	prompt := prompts.GeneralChat(prompts.GeneralChatInput{
		Name:     user.Name,
		Profile:  profile,
		MealPlan: mealPlan,
		Today:    s.now().Weekday().String(),
		Reports:  reports,
		Question: question,
	})

	reply, err := s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: prompts.GeneralChatSystem},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{Intent: IntentGeneralChat, Response: reply}, nil
}

func (s *Service) currentNeeds(user *storage.User, profile nutrition.Profile) (nutrition.Needs, error) {
	if len(user.NutritionalNeeds) > 0 {
		var needs nutrition.Needs
		if err := json.Unmarshal(user.NutritionalNeeds, &needs); err != nil {
			return nutrition.Needs{}, fmt.Errorf("unmarshal stored needs: %w", err)
		}
		return needs, nil
	}

	needs, err := nutrition.Compute(profile)
	if err != nil {
		return nutrition.Needs{}, err
	}
	needs.LastCalculated = s.now().UTC()
	return needs, nil
}
