package aiquery_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/domain/message"
)

type completion struct {
	queryID  string
	response string
}

type mockRepository struct {
	CreateFunc     func(ctx context.Context, q *aiquery.AIQuery) error
	FindByIDFunc   func(ctx context.Context, id string) (*aiquery.AIQuery, error)
	ListByRoomFunc func(ctx context.Context, roomID string) ([]*aiquery.AIQuery, error)

	completed chan completion
}

func newMockRepository() *mockRepository {
	return &mockRepository{completed: make(chan completion, 1)}
}

func (m *mockRepository) Create(ctx context.Context, q *aiquery.AIQuery) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, q)
	}
	q.ID = "query-1"
	q.CreatedAt = time.Now()
	return nil
}

func (m *mockRepository) Complete(ctx context.Context, id, response string) error {
	m.completed <- completion{queryID: id, response: response}
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*aiquery.AIQuery, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, aiquery.ErrNotFound
}

func (m *mockRepository) ListByRoom(ctx context.Context, roomID string) ([]*aiquery.AIQuery, error) {
	if m.ListByRoomFunc != nil {
		return m.ListByRoomFunc(ctx, roomID)
	}
	return nil, nil
}

func (m *mockRepository) waitForCompletion(t *testing.T) completion {
	t.Helper()
	select {
	case c := <-m.completed:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for query completion")
		return completion{}
	}
}

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, contextMessages)
	}
	return "generated answer", nil
}

type mockHistory struct {
	HistoryFunc func(ctx context.Context, roomID string) ([]*message.Message, error)
}

func (m *mockHistory) History(ctx context.Context, roomID string) ([]*message.Message, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, roomID)
	}
	return nil, nil
}

func newTestService(repo *mockRepository, history *mockHistory, gen *mockGenerator) *aiquery.Service {
	return aiquery.NewService(repo, history, gen, "test-model", time.Second, zerolog.Nop())
}

func TestService_AskReturnsPendingImmediately(t *testing.T) {
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, _ []aiquery.ContextMessage) (string, error) {
			return "the answer", nil
		},
	}
	svc := newTestService(repo, &mockHistory{}, gen)

	q, err := svc.Ask(context.Background(), "general", "user-1", "what did I miss?")
	require.NoError(t, err)

	assert.Equal(t, aiquery.StatePending, q.State)
	assert.Empty(t, q.Response)
	assert.Equal(t, "test-model", q.Model)

	done := repo.waitForCompletion(t)
	assert.Equal(t, q.ID, done.queryID)
	assert.Equal(t, "the answer", done.response)
}

func TestService_AskRejectsEmptyQuery(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockHistory{}, &mockGenerator{})

	_, err := svc.Ask(context.Background(), "general", "user-1", "   ")
	require.Error(t, err)
}

func TestService_AskSurvivesCallerCancellation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockHistory{}, &mockGenerator{})

	ctx, cancel := context.WithCancel(context.Background())
	q, err := svc.Ask(ctx, "general", "user-1", "question")
	require.NoError(t, err)
	cancel()

	done := repo.waitForCompletion(t)
	assert.Equal(t, q.ID, done.queryID)
	assert.Equal(t, "generated answer", done.response)
}

func TestService_GeneratorFailureYieldsApology(t *testing.T) {
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, _ []aiquery.ContextMessage) (string, error) {
			return "", errors.New("upstream unreachable")
		},
	}
	svc := newTestService(repo, &mockHistory{}, gen)

	_, err := svc.Ask(context.Background(), "general", "user-1", "question")
	require.NoError(t, err, "generator failures must not surface to the asker")

	done := repo.waitForCompletion(t)
	assert.Contains(t, done.response, "Sorry, I could not reach the AI service")
}

func TestService_BlankGenerationYieldsFallback(t *testing.T) {
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, _ []aiquery.ContextMessage) (string, error) {
			return "   ", nil
		},
	}
	svc := newTestService(repo, &mockHistory{}, gen)

	_, err := svc.Ask(context.Background(), "general", "user-1", "question")
	require.NoError(t, err)

	done := repo.waitForCompletion(t)
	assert.Equal(t, "Sorry, I could not generate a response.", done.response)
}

func TestService_AskUsesLastTenMessagesAsContext(t *testing.T) {
	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	history := &mockHistory{
		HistoryFunc: func(ctx context.Context, roomID string) ([]*message.Message, error) {
			msgs := make([]*message.Message, 0, 15)
			for i := 0; i < 15; i++ {
				msgs = append(msgs, &message.Message{
					ID:        fmt.Sprintf("msg-%02d", i),
					UserID:    "user-1",
					Content:   fmt.Sprintf("line %d", i),
					CreatedAt: base.Add(time.Duration(i) * time.Second),
				})
			}
			return msgs, nil
		},
	}

	var captured []aiquery.ContextMessage
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
			captured = contextMessages
			return "ok", nil
		},
	}
	svc := newTestService(repo, history, gen)

	_, err := svc.Ask(context.Background(), "general", "user-1", "question")
	require.NoError(t, err)
	repo.waitForCompletion(t)

	require.Len(t, captured, 10, "context window is the last 10 messages")
	assert.Equal(t, "line 5", captured[0].Content)
	assert.Equal(t, "line 14", captured[9].Content)
	assert.True(t, strings.HasPrefix(captured[0].Author, "User "), "context lines carry author labels")
}

func TestService_SummarizeUsesFullHistory(t *testing.T) {
	history := &mockHistory{
		HistoryFunc: func(ctx context.Context, roomID string) ([]*message.Message, error) {
			msgs := make([]*message.Message, 0, 25)
			for i := 0; i < 25; i++ {
				msgs = append(msgs, &message.Message{
					ID:      fmt.Sprintf("msg-%02d", i),
					UserID:  "user-1",
					Content: fmt.Sprintf("line %d", i),
				})
			}
			return msgs, nil
		},
	}

	var capturedPrompt string
	var captured []aiquery.ContextMessage
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
			capturedPrompt = prompt
			captured = contextMessages
			return "summary", nil
		},
	}
	svc := newTestService(repo, history, gen)

	q, err := svc.Summarize(context.Background(), "general", "user-1")
	require.NoError(t, err)
	assert.Equal(t, aiquery.StatePending, q.State)
	repo.waitForCompletion(t)

	assert.Len(t, captured, 25, "summarize spans the full history")
	assert.Contains(t, capturedPrompt, "Summarize the conversation")
}

func TestService_SummarizeEmptyRoomStillCompletes(t *testing.T) {
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
			assert.Empty(t, contextMessages)
			return "There is nothing to summarize yet.", nil
		},
	}
	svc := newTestService(repo, &mockHistory{}, gen)

	_, err := svc.Summarize(context.Background(), "general", "user-1")
	require.NoError(t, err)

	done := repo.waitForCompletion(t)
	assert.NotEmpty(t, done.response)
}

func TestService_HistoryFailureAnswersWithoutContext(t *testing.T) {
	history := &mockHistory{
		HistoryFunc: func(ctx context.Context, roomID string) ([]*message.Message, error) {
			return nil, errors.New("db down")
		},
	}
	repo := newMockRepository()
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
			assert.Empty(t, contextMessages)
			return "answer without context", nil
		},
	}
	svc := newTestService(repo, history, gen)

	_, err := svc.Ask(context.Background(), "general", "user-1", "question")
	require.NoError(t, err)

	done := repo.waitForCompletion(t)
	assert.Equal(t, "answer without context", done.response)
}
