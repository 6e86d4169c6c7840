package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"testing"
	"time"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/contract"
	"agentic-rag-be/internal/repository/specification"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes ---

type fakeStore struct {
	messages      []*entity.Message
	summaries     map[uuid.UUID]*entity.ConversationSummary
	conversations map[uuid.UUID]*entity.Conversation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		summaries:     make(map[uuid.UUID]*entity.ConversationSummary),
		conversations: make(map[uuid.UUID]*entity.Conversation),
	}
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.messages = append(r.store.messages, message)
	return nil
}

// apply interprets the same specification types the GORM implementation
// feeds into the query builder.
func (r *fakeMessageRepo) apply(specs []specification.Specification) []*entity.Message {
	result := make([]*entity.Message, len(r.store.messages))
	copy(result, r.store.messages)

	limit, offset := 0, 0
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByConversationID:
			filtered := result[:0]
			for _, msg := range result {
				if msg.ConversationId == s.ConversationID {
					filtered = append(filtered, msg)
				}
			}
			result = filtered
		case specification.OrderBy:
			desc := s.Desc
			sort.SliceStable(result, func(i, j int) bool {
				if desc {
					return result[i].CreatedAt.After(result[j].CreatedAt)
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		case specification.Pagination:
			limit, offset = s.Limit, s.Offset
		}
	}

	if offset > 0 {
		if offset >= len(result) {
			return nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return r.apply(specs), nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.apply(specs))), nil
}

func (r *fakeMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	kept := r.store.messages[:0]
	for _, msg := range r.store.messages {
		if msg.ConversationId != conversationId {
			kept = append(kept, msg)
		}
	}
	r.store.messages = kept
	return nil
}

type fakeSummaryRepo struct{ store *fakeStore }

func (r *fakeSummaryRepo) Create(ctx context.Context, summary *entity.ConversationSummary) error {
	r.store.summaries[summary.ConversationId] = summary
	return nil
}

func (r *fakeSummaryRepo) Update(ctx context.Context, summary *entity.ConversationSummary) error {
	r.store.summaries[summary.ConversationId] = summary
	return nil
}

func (r *fakeSummaryRepo) FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.ConversationSummary, error) {
	return r.store.summaries[conversationId], nil
}

func (r *fakeSummaryRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	delete(r.store.summaries, conversationId)
	return nil
}

type fakeConversationRepo struct{ store *fakeStore }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.store.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, c *entity.Conversation) error {
	r.store.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.conversations, id)
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.store.conversations[s.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var result []*entity.Conversation
	for _, c := range r.store.conversations {
		result = append(result, c)
	}
	return result, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.conversations)), nil
}

type fakeUnitOfWork struct{ store *fakeStore }

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return nil }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{store: u.store}
}
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUnitOfWork) ConversationSummaryRepository() contract.ConversationSummaryRepository {
	return &fakeSummaryRepo{store: u.store}
}
func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository           { return nil }
func (u *fakeUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

// --- Helpers ---

func newTestManager(store *fakeStore, provider llm.LLMProvider) *Manager {
	return NewManager(&fakeFactory{store: store}, provider, log.New(io.Discard, "", 0))
}

func seedConversation(store *fakeStore) uuid.UUID {
	id := uuid.New()
	store.conversations[id] = &entity.Conversation{
		Id:        id,
		UserId:    uuid.New(),
		Title:     constant.DefaultConversationTitle,
		CreatedAt: time.Now(),
	}
	return id
}

func seedMessages(store *fakeStore, conversationId uuid.UUID, n int) {
	// Continue numbering and timestamps after any previously seeded messages
	// so repeated seeding stays chronological.
	start := len(store.messages)
	base := time.Now().Add(-time.Hour)
	for i := start; i < start+n; i++ {
		role := constant.MessageRoleUser
		if i%2 == 1 {
			role = constant.MessageRoleAssistant
		}
		store.messages = append(store.messages, &entity.Message{
			Id:             uuid.New(),
			ConversationId: conversationId,
			Role:           role,
			Content:        fmt.Sprintf("message %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
	}
}

// --- Tests ---

func TestBuildContextPromptEmptyConversation(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeLLM{})

	got := m.BuildContextPrompt(&Context{}, "What are agents?")
	assert.Equal(t, "Current question: What are agents?", got)
}

func TestBuildContextPromptFullLayout(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeLLM{})

	c := &Context{
		Summary: "We discussed prompt engineering.",
		RecentMessages: []*entity.Message{
			{Role: constant.MessageRoleUser, Content: "What is RAG?"},
			{Role: constant.MessageRoleAssistant, Content: "Retrieval augmented generation."},
		},
	}

	got := m.BuildContextPrompt(c, "And agents?")
	want := "Previous conversation summary: We discussed prompt engineering.\n\n" +
		"Recent conversation:\n\n" +
		"Human: What is RAG?\n\n" +
		"Assistant: Retrieval augmented generation.\n\n" +
		"Current question: And agents?"
	assert.Equal(t, want, got)
}

func TestGetContextReturnsLastBufferInOrder(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 10)
	m := newTestManager(store, &fakeLLM{})

	c, err := m.GetContext(context.Background(), conversationId)
	require.NoError(t, err)

	require.Len(t, c.RecentMessages, BufferSize)
	// Chronological order: oldest of the window first
	assert.Equal(t, "message 4", c.RecentMessages[0].Content)
	assert.Equal(t, "message 9", c.RecentMessages[BufferSize-1].Content)
	assert.Equal(t, BufferSize, c.MessagesCount)
}

func TestGetContextRoundTrip(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	m := newTestManager(store, &fakeLLM{})

	c, err := m.GetContext(context.Background(), conversationId)
	require.NoError(t, err)

	got := m.BuildContextPrompt(c, "hello")
	assert.Equal(t, "Current question: hello", got)
}

func TestAddMessageDerivesTitleOnce(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	m := newTestManager(store, &fakeLLM{})
	uow := &fakeUnitOfWork{store: store}

	_, err := m.AddMessage(context.Background(), uow, conversationId,
		constant.MessageRoleUser, "Tell me about adversarial attacks", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about adversarial attacks", store.conversations[conversationId].Title)

	// A later user message must not overwrite the derived title
	_, err = m.AddMessage(context.Background(), uow, conversationId,
		constant.MessageRoleUser, "Different question entirely", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about adversarial attacks", store.conversations[conversationId].Title)
}

func TestAddMessageTruncatesLongTitle(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	m := newTestManager(store, &fakeLLM{})
	uow := &fakeUnitOfWork{store: store}

	long := strings.Repeat("a", 80)
	_, err := m.AddMessage(context.Background(), uow, conversationId,
		constant.MessageRoleUser, long, nil, nil)
	require.NoError(t, err)

	title := store.conversations[conversationId].Title
	assert.Equal(t, strings.Repeat("a", 50)+"...", title)
}

func TestAssistantMessageDoesNotSetTitle(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	m := newTestManager(store, &fakeLLM{})
	uow := &fakeUnitOfWork{store: store}

	_, err := m.AddMessage(context.Background(), uow, conversationId,
		constant.MessageRoleAssistant, "Hello, how can I help?", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultConversationTitle, store.conversations[conversationId].Title)
}

func TestSummarizeNineMessages(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 9)
	provider := &fakeLLM{response: "Summary of the first three messages."}
	m := newTestManager(store, provider)

	changed, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	assert.True(t, changed)

	summary := store.summaries[conversationId]
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.MessagesSummarizedCount)
	assert.Equal(t, "Summary of the first three messages.", summary.SummaryText)
}

func TestSummarizeBelowTriggerIsNoop(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, SummaryTrigger)
	m := newTestManager(store, &fakeLLM{response: "should not be called"})

	changed, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, store.summaries[conversationId])
}

func TestSummarizeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 9)
	provider := &fakeLLM{response: "First summary."}
	m := newTestManager(store, provider)

	changed, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	assert.True(t, changed)
	callsAfterFirst := provider.calls

	changed, err = m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, callsAfterFirst, provider.calls, "no model call on the idempotent pass")
	assert.Equal(t, 3, store.summaries[conversationId].MessagesSummarizedCount)
}

func TestSummarizedCountIsMonotonic(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 9)
	provider := &fakeLLM{response: "Incremental summary."}
	m := newTestManager(store, provider)

	_, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	first := store.summaries[conversationId].MessagesSummarizedCount

	// Conversation grows past the trigger again
	seedMessages(store, conversationId, 4)
	changed, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)
	assert.True(t, changed)

	second := store.summaries[conversationId].MessagesSummarizedCount
	assert.GreaterOrEqual(t, second, first)
	assert.Equal(t, 13-BufferSize, second)
	// Appended, never rewritten
	assert.Contains(t, store.summaries[conversationId].SummaryText, "\n\n")
}

func TestSummarizeBufferNeverOverlapsSummarizedSpan(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 12)
	m := newTestManager(store, &fakeLLM{response: "s"})

	_, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err)

	count := store.summaries[conversationId].MessagesSummarizedCount
	assert.LessOrEqual(t, count, 12-BufferSize)
}

func TestSummarizeFallbackOnModelFailure(t *testing.T) {
	store := newFakeStore()
	conversationId := seedConversation(store)
	seedMessages(store, conversationId, 9)
	m := newTestManager(store, &fakeLLM{err: errors.New("model down")})

	changed, err := m.CheckAndSummarizeIfNeeded(context.Background(), conversationId)
	require.NoError(t, err, "summarization failure must not fail the request")
	assert.True(t, changed)

	summary := store.summaries[conversationId]
	require.NotNil(t, summary)
	assert.True(t, strings.HasPrefix(summary.SummaryText, "Discussion covered: "))
	assert.True(t, strings.HasSuffix(summary.SummaryText, "..."))
	assert.Equal(t, 3, summary.MessagesSummarizedCount)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "Hello", "Hello"},
		{"exactly fifty", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"fifty one", strings.Repeat("x", 51), strings.Repeat("x", 50) + "..."},
		{"multibyte runes", strings.Repeat("é", 60), strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.content))
		})
	}
}
