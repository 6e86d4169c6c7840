package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUESTION_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by the domain constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event types
const (
	TypeQuestionAnswered    = "QUESTION_ANSWERED"
	TypeConversationCreated = "CONVERSATION_CREATED"
	TypeConversationDeleted = "CONVERSATION_DELETED"
	TypeDocumentIngested    = "DOCUMENT_INGESTED"
	TypeDocumentDeleted     = "DOCUMENT_DELETED"
)

func NewQuestionAnswered(userId, conversationId, routeTaken string, documentsCount int, usedWebSearch bool) Event {
	return BaseEvent{
		Type: TypeQuestionAnswered,
		Data: map[string]interface{}{
			"user_id":         userId,
			"conversation_id": conversationId,
			"route_taken":     routeTaken,
			"documents_count": documentsCount,
			"used_web_search": usedWebSearch,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationCreated(userId, conversationId string) Event {
	return BaseEvent{
		Type: TypeConversationCreated,
		Data: map[string]interface{}{
			"user_id":         userId,
			"conversation_id": conversationId,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationDeleted(userId, conversationId string) Event {
	return BaseEvent{
		Type: TypeConversationDeleted,
		Data: map[string]interface{}{
			"user_id":         userId,
			"conversation_id": conversationId,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIngested(userId, documentId string) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"user_id":     userId,
			"document_id": documentId,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentDeleted(userId, documentId string) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"user_id":     userId,
			"document_id": documentId,
		},
		OccurredAt: time.Now(),
	}
}
