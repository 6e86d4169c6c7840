package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// DefaultConversationTitle is the placeholder set at creation time.
	// The first user message replaces it (truncated to TitleMaxLen runes).
	DefaultConversationTitle = "New Conversation"
	TitleMaxLen              = 50
)
