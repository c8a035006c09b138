package chat

import "strings"

// Intent classes for an incoming chat message.
type IntentKind string

const (
	IntentDocumentAnalysis IntentKind = "document_analysis"
	IntentMealModification IntentKind = "meal_modification"
	IntentGeneralChat      IntentKind = "general_chat"
)

// Intent is a classified message: the kind plus the payload the handler
// works on. For document analysis the payload is the text after the marker;
// for the other kinds it is the original message.
type Intent struct {
	Kind    IntentKind
	Payload string
}

// Router classifies a raw chat message. Kept behind an interface so the
// substring heuristic can be swapped for a real classifier without touching
// the prompt or parser contracts.
type Router interface {
	Classify(message string) Intent
}

// DocumentMarker prefixes messages carrying extracted document text.
const DocumentMarker = "Analyze this medical document:"

// SubstringRouter is the default first-match classifier: document marker
// first, then meal-modification phrases, then general chat.
type SubstringRouter struct{}

func (SubstringRouter) Classify(message string) Intent {
	if strings.HasPrefix(message, DocumentMarker) {
		return Intent{
			Kind:    IntentDocumentAnalysis,
			Payload: strings.TrimSpace(strings.TrimPrefix(message, DocumentMarker)),
		}
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "change meal") || strings.Contains(lower, "modify meal") {
		return Intent{Kind: IntentMealModification, Payload: message}
	}

	return Intent{Kind: IntentGeneralChat, Payload: message}
}
