package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/plan"
)

// SendMessageRequest — request for POST /v1/chat/{uid}
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse — the assistant's reply plus the classified intent.
// Modifications is set only for the meal-modification path.
type SendMessageResponse struct {
	Intent        IntentKind               `json:"intent"`
	Response      string                   `json:"response"`
	Modifications *plan.ModificationResult `json:"modifications,omitempty"`
}

// MessageDTO — one stored conversation turn for GET /v1/chat/{uid}
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryResponse — response for GET /v1/chat/{uid}
type HistoryResponse struct {
	Messages []MessageDTO `json:"messages"`
}
