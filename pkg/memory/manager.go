// FILE: pkg/memory/manager.go
// PURPOSE: Bounded per-conversation context via sliding buffer + rolling summary

package memory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/llm"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// BufferSize is the trailing window of messages kept verbatim.
	BufferSize = 6
	// SummaryTrigger is the message count past which older turns are
	// compressed into the summary. Always > BufferSize.
	SummaryTrigger = 8

	contextCacheTTL = 5 * time.Minute
)

// Context is the prior-conversation state injected ahead of a new question.
type Context struct {
	Summary        string
	RecentMessages []*entity.Message
	MessagesCount  int
}

// Manager owns conversation memory: context reads, message appends with title
// derivation, and incremental summarization. Summarization is serialized per
// conversation id to keep messages_summarized_count monotonic under
// concurrent turns.
type Manager struct {
	factory unitofwork.RepositoryFactory
	llm     llm.LLMProvider
	cache   *gocache.Cache
	logger  *log.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewManager(factory unitofwork.RepositoryFactory, provider llm.LLMProvider, logger *log.Logger) *Manager {
	return &Manager{
		factory: factory,
		llm:     provider,
		cache:   gocache.New(contextCacheTTL, 2*contextCacheTTL),
		logger:  logger,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (m *Manager) lockFor(conversationId uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[conversationId]
	if !ok {
		l = &sync.Mutex{}
		m.locks[conversationId] = l
	}
	return l
}

func contextCacheKey(conversationId uuid.UUID) string {
	return "context:" + conversationId.String()
}

// GetContext returns the persisted summary (if any) plus the chronologically
// ordered last BufferSize messages. Pure read, cached briefly.
func (m *Manager) GetContext(ctx context.Context, conversationId uuid.UUID) (*Context, error) {
	if cached, found := m.cache.Get(contextCacheKey(conversationId)); found {
		return cached.(*Context), nil
	}

	uow := m.factory.NewUnitOfWork(ctx)

	recent, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: BufferSize},
	)
	if err != nil {
		return nil, err
	}
	// Query is newest-first; reverse into chronological order
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	summary, err := uow.ConversationSummaryRepository().FindByConversationId(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	result := &Context{
		RecentMessages: recent,
		MessagesCount:  len(recent),
	}
	if summary != nil {
		result.Summary = summary.SummaryText
	}

	m.cache.Set(contextCacheKey(conversationId), result, gocache.DefaultExpiration)
	return result, nil
}

// InvalidateContext drops the cached context after a write.
func (m *Manager) InvalidateContext(conversationId uuid.UUID) {
	m.cache.Delete(contextCacheKey(conversationId))
}

// BuildContextPrompt deterministically concatenates summary, recent turns and
// the current question. This textual concatenation is the only context
// injection mechanism. With no summary and no messages the result is exactly
// "Current question: {q}".
func (m *Manager) BuildContextPrompt(c *Context, question string) string {
	var parts []string

	if c != nil && c.Summary != "" {
		parts = append(parts, fmt.Sprintf("Previous conversation summary: %s", c.Summary))
	}

	if c != nil && len(c.RecentMessages) > 0 {
		parts = append(parts, "Recent conversation:")
		for _, msg := range c.RecentMessages {
			parts = append(parts, fmt.Sprintf("%s: %s", roleLabel(msg.Role), msg.Content))
		}
	}

	parts = append(parts, fmt.Sprintf("Current question: %s", question))

	return strings.Join(parts, "\n\n")
}

func roleLabel(role string) string {
	if role == constant.MessageRoleUser {
		return "Human"
	}
	return "Assistant"
}

// AddMessage appends a message inside the caller's unit of work, stamps the
// conversation's updated-at, and derives the title from the first user
// message while the title is still the default placeholder.
func (m *Manager) AddMessage(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	conversationId uuid.UUID,
	role string,
	content string,
	routeTaken *string,
	provenance *entity.MessageProvenance,
) (*entity.Message, error) {
	message := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           role,
		Content:        content,
		RouteTaken:     routeTaken,
		Provenance:     provenance,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation %s not found", conversationId)
	}

	now := time.Now()
	conversation.UpdatedAt = &now

	if role == constant.MessageRoleUser && conversation.Title == constant.DefaultConversationTitle {
		conversation.Title = DeriveTitle(content)
	}

	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}

	m.InvalidateContext(conversationId)
	return message, nil
}

// DeriveTitle takes the first 50 characters of the message, ellipsis-appended
// when truncated.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > constant.TitleMaxLen {
		return string(runes[:constant.TitleMaxLen]) + "..."
	}
	return content
}

// CheckAndSummarizeIfNeeded compresses everything older than the trailing
// buffer into the rolling summary. Idempotent: repeated calls with no new
// messages are no-ops. Summarization failure falls back to deterministic
// truncation, never failing the surrounding request.
func (m *Manager) CheckAndSummarizeIfNeeded(ctx context.Context, conversationId uuid.UUID) (bool, error) {
	lock := m.lockFor(conversationId)
	lock.Lock()
	defer lock.Unlock()

	uow := m.factory.NewUnitOfWork(ctx)
	messageRepo := uow.MessageRepository()
	summaryRepo := uow.ConversationSummaryRepository()

	count, err := messageRepo.Count(ctx,
		specification.ByConversationID{ConversationID: conversationId},
	)
	if err != nil {
		return false, err
	}
	messageCount := int(count)

	if messageCount <= SummaryTrigger {
		return false, nil
	}

	existing, err := summaryRepo.FindByConversationId(ctx, conversationId)
	if err != nil {
		return false, err
	}

	toSummarize := messageCount - BufferSize
	already := 0
	if existing != nil {
		already = existing.MessagesSummarizedCount
	}
	if toSummarize <= already {
		return false, nil
	}

	span, err := messageRepo.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: toSummarize - already, Offset: already},
	)
	if err != nil {
		return false, err
	}
	if len(span) == 0 {
		return false, nil
	}

	lines := make([]string, len(span))
	for i, msg := range span {
		lines[i] = fmt.Sprintf("%s: %s", roleLabel(msg.Role), msg.Content)
	}
	conversationText := strings.Join(lines, "\n")

	newPart := m.summarize(ctx, conversationText)

	if existing != nil {
		existing.SummaryText = existing.SummaryText + "\n\n" + newPart
		existing.MessagesSummarizedCount = toSummarize
		now := time.Now()
		existing.UpdatedAt = &now
		if err := summaryRepo.Update(ctx, existing); err != nil {
			return false, err
		}
	} else {
		summary := &entity.ConversationSummary{
			Id:                      uuid.New(),
			ConversationId:          conversationId,
			SummaryText:             newPart,
			MessagesSummarizedCount: toSummarize,
			CreatedAt:               time.Now(),
		}
		if err := summaryRepo.Create(ctx, summary); err != nil {
			return false, err
		}
	}

	m.InvalidateContext(conversationId)
	m.logger.Printf("[MEMORY] summarized conversation=%s messages=%d", conversationId, toSummarize)
	return true, nil
}

// summarize compresses one span of turns. Best-effort: on model failure it
// degrades to a truncation of the raw text.
func (m *Manager) summarize(ctx context.Context, conversationText string) string {
	history := []llm.Message{
		{Role: "system", Content: constant.SummarySystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Summarize this conversation:\n\n%s", conversationText)},
	}

	summary, err := m.llm.Chat(ctx, history, llm.WithTemperature(0))
	if err != nil {
		m.logger.Printf("[MEMORY] summarization failed, using truncation fallback: %v", err)
		return fallbackSummary(conversationText)
	}
	return summary
}

func fallbackSummary(conversationText string) string {
	runes := []rune(conversationText)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return "Discussion covered: " + string(runes) + "..."
}
