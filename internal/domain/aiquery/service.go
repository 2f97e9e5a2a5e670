package aiquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/infrastructure/metrics"
)

// Fixed texts. A failed generator call is terminal for the query; the user
// must resubmit.
const (
	failureResponse      = "Sorry, I could not reach the AI service. Please check the configuration or try again in a moment."
	emptyResponse        = "Sorry, I could not generate a response."
	summarizeInstruction = "Summarize the conversation so far, as bullet points."

	contextWindow = 10
)

// Generator is the AI collaborator. Failures are returned as errors and never
// propagate past the coordinator boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string, contextMessages []ContextMessage) (string, error)
}

// Repository persists the per-room query log.
type Repository interface {
	Create(ctx context.Context, q *AIQuery) error
	Complete(ctx context.Context, id, response string) error
	FindByID(ctx context.Context, id string) (*AIQuery, error)
	ListByRoom(ctx context.Context, roomID string) ([]*AIQuery, error)
}

// MessageHistory provides the room message window shared with the fan-out
// path.
type MessageHistory interface {
	History(ctx context.Context, roomID string) ([]*message.Message, error)
}

// Service sequences a user query plus recent room context into a single
// outbound generator request and plumbs the async response back into the
// room's query log.
type Service struct {
	repo      Repository
	history   MessageHistory
	generator Generator
	model     string
	timeout   time.Duration
	log       zerolog.Logger
}

func NewService(repo Repository, history MessageHistory, generator Generator, model string, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 75 * time.Second
	}
	return &Service{
		repo:      repo,
		history:   history,
		generator: generator,
		model:     model,
		timeout:   timeout,
		log:       log.With().Str("component", "aiquery-service").Logger(),
	}
}

// Ask creates a pending query visible immediately and resolves it in the
// background against the last messages of the room. A disconnect of the
// asking session does not abort the query.
func (s *Service) Ask(ctx context.Context, roomID, userID, queryText string) (*AIQuery, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("query text is required")
	}
	return s.start(ctx, roomID, userID, queryText, contextWindow)
}

// Summarize behaves like Ask with a fixed instruction and the full room
// history as context.
func (s *Service) Summarize(ctx context.Context, roomID, userID string) (*AIQuery, error) {
	return s.start(ctx, roomID, userID, summarizeInstruction, 0)
}

// Get fetches a single query.
func (s *Service) Get(ctx context.Context, id string) (*AIQuery, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByRoom returns the room's query log, oldest first.
func (s *Service) ListByRoom(ctx context.Context, roomID string) ([]*AIQuery, error) {
	return s.repo.ListByRoom(ctx, roomID)
}

func (s *Service) start(ctx context.Context, roomID, userID, queryText string, window int) (*AIQuery, error) {
	q := &AIQuery{
		RoomID: roomID,
		UserID: userID,
		Query:  queryText,
		State:  StatePending,
		Model:  s.model,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create ai query: %w", err)
	}

	go s.resolve(q.ID, roomID, queryText, window)

	return q, nil
}

// resolve runs detached from the caller's context: there is no cancellation
// path once a query is submitted.
func (s *Service) resolve(queryID, roomID, queryText string, window int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	contextMessages, err := s.contextWindow(ctx, roomID, window)
	if err != nil {
		s.log.Warn().Err(err).Str("query_id", queryID).Msg("load room context")
		// Answer without context rather than leaving the query pending.
		contextMessages = nil
	}

	outcome := "success"
	response, err := s.generator.Generate(ctx, queryText, contextMessages)
	if err != nil {
		s.log.Error().Err(err).Str("query_id", queryID).Msg("generator call failed")
		response = failureResponse
		outcome = "failure"
	}
	if strings.TrimSpace(response) == "" {
		response = emptyResponse
		outcome = "empty"
	}
	metrics.AIQueriesTotal.WithLabelValues(outcome).Inc()

	if err := s.repo.Complete(ctx, queryID, response); err != nil {
		s.log.Error().Err(err).Str("query_id", queryID).Msg("record ai response")
	}
}

func (s *Service) contextWindow(ctx context.Context, roomID string, window int) ([]ContextMessage, error) {
	msgs, err := s.history.History(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if window > 0 && len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}

	out := make([]ContextMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ContextMessage{Author: authorLabel(m.UserID), Content: m.Content})
	}
	return out, nil
}

func authorLabel(userID string) string {
	if userID == "ai" {
		return "AI"
	}
	return "User " + userID
}
