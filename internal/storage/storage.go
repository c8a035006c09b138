package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint (uid/email) is hit.
	ErrDuplicate = errors.New("already exists")
)

// User is the persisted care-recipient record. Medications, MealPlan and
// NutritionalNeeds are stored as raw JSON (JSONB in Postgres); the services
// own their typed shapes.
type User struct {
	UID                 string
	PhoneNo             string
	Email               string
	Name                string
	Age                 int
	WeightKg            float64
	HeightCm            float64
	Gender              string
	HealthIssues        string
	Allergies           string
	Cuisines            string
	Goal                string
	DoctorNo            string
	ExtraInfo           string
	BirthDate           string
	ActivityLevel       string
	DietaryRestrictions string
	MealPreferences     string
	Medications         []byte
	MealPlan            []byte
	NutritionalNeeds    []byte
	LastPlanUpdate      *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UsersStorage persists care-recipient records keyed by uid.
type UsersStorage interface {
	// CreateUser inserts a new user; ErrDuplicate when uid or email is taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUser returns the user by uid; ErrNotFound when absent.
	GetUser(ctx context.Context, uid string) (*User, error)

	// UpdateUser replaces the stored record for user.UID.
	UpdateUser(ctx context.Context, user *User) error

	// SavePlan stores a freshly generated meal plan and the needs it was
	// generated against, stamping LastPlanUpdate.
	SavePlan(ctx context.Context, uid string, mealPlan, needs []byte, at time.Time) error
}

// ChatMessage is one stored conversation turn.
type ChatMessage struct {
	ID        uuid.UUID
	UID       string
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// ChatStorage persists per-user conversation history.
type ChatStorage interface {
	// InsertMessage appends a message and returns the stored row.
	InsertMessage(ctx context.Context, uid, role, content string) (ChatMessage, error)

	// ListMessages returns up to limit of the most recent messages in
	// chronological order.
	ListMessages(ctx context.Context, uid string, limit int) ([]ChatMessage, error)
}

// WeeklyReport is a self-reported well-being check-in (scores are 1-5).
type WeeklyReport struct {
	ID               uuid.UUID
	UID              string
	ReportDate       time.Time
	OverallFeeling   int
	EnergyLevels     int
	SleepQuality     int
	StressLevels     int
	DietAdherence    int
	PhysicalActivity int
	DigestiveHealth  int
	Challenges       string
	Improvements     string
	Notes            string
	CreatedAt        time.Time
}

// ReportsStorage persists weekly well-being reports.
type ReportsStorage interface {
	// InsertWeeklyReport appends a report.
	InsertWeeklyReport(ctx context.Context, report *WeeklyReport) error

	// ListWeeklyReports returns up to limit of the most recent reports in
	// chronological order (oldest of the window first).
	ListWeeklyReports(ctx context.Context, uid string, limit int) ([]WeeklyReport, error)
}

// Document is an uploaded medical document plus its extraction/analysis
// results. ObjectKey is nil when blob storage is off.
type Document struct {
	ID            uuid.UUID
	UID           string
	Filename      string
	ContentType   string
	ObjectKey     *string
	SizeBytes     int64
	ExtractedText string
	Analysis      string
	CreatedAt     time.Time
}

// DocumentsStorage persists uploaded-document metadata and analysis.
type DocumentsStorage interface {
	// CreateDocument inserts a document record.
	CreateDocument(ctx context.Context, doc *Document) error

	// GetDocument returns a document by id; ErrNotFound when absent.
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)

	// ListDocuments returns up to limit of the most recent documents,
	// newest first.
	ListDocuments(ctx context.Context, uid string, limit int) ([]Document, error)
}

// Storage is the full persistence surface, implemented by both the in-memory
// and the Postgres backends.
type Storage interface {
	UsersStorage
	ChatStorage
	ReportsStorage
	DocumentsStorage

	// Close releases the underlying connections (no-op for memory).
	Close() error
}
