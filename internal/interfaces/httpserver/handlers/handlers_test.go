package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/handlers"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

type mockUserRepo struct {
	FindByEmailFunc func(ctx context.Context, email string) (*user.User, string, error)
	CreateFunc      func(ctx context.Context, u *user.User, passwordHash string) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, string, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, "", user.ErrNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User, passwordHash string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	return nil
}

type mockMessageRepo struct {
	AppendMessageFunc     func(ctx context.Context, msg *message.Message) (*message.Message, error)
	IncrementReactionFunc func(ctx context.Context, messageID, emoji string) (map[string]int, string, error)
}

func (m *mockMessageRepo) LoadMessages(ctx context.Context, roomID string) ([]*message.Message, error) {
	return nil, nil
}

func (m *mockMessageRepo) AppendMessage(ctx context.Context, msg *message.Message) (*message.Message, error) {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, msg)
	}
	return msg, nil
}

func (m *mockMessageRepo) IncrementReaction(ctx context.Context, messageID, emoji string) (map[string]int, string, error) {
	if m.IncrementReactionFunc != nil {
		return m.IncrementReactionFunc(ctx, messageID, emoji)
	}
	return nil, "", message.ErrNotFound
}

type mockRoomLookup struct{}

func (m *mockRoomLookup) FindByID(ctx context.Context, id string) (*room.Room, error) {
	if id == "general" {
		return &room.Room{ID: id, Name: "general"}, nil
	}
	return nil, room.ErrNotFound
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockUserRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*user.User, string, error) {
			// sha256("secret")
			return &user.User{ID: "user-1", Email: email, DisplayName: "Alice"},
				"2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b", nil
		},
	}
	handler := handlers.NewAuthHandler(user.NewService(repo, zerolog.Nop()), zerolog.Nop())

	router := gin.New()
	router.POST("/api/auth/login", handler.Login)

	w := postJSON(t, router, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var got user.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, user.StatusOnline, got.Status)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockUserRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*user.User, string, error) {
			return &user.User{ID: "user-1"}, "not-the-right-hash", nil
		},
	}
	handler := handlers.NewAuthHandler(user.NewService(repo, zerolog.Nop()), zerolog.Nop())

	router := gin.New()
	router.POST("/api/auth/login", handler.Login)

	w := postJSON(t, router, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := handlers.NewAuthHandler(user.NewService(&mockUserRepo{}, zerolog.Nop()), zerolog.Nop())
	router := gin.New()
	router.POST("/api/auth/login", handler.Login)

	w := postJSON(t, router, "/api/auth/login", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newMessageTestStack(t *testing.T, repo *mockMessageRepo) (*gin.Engine, *realtime.Registry, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(registry, zerolog.Nop())
	svc := message.NewService(repo, &mockRoomLookup{}, zerolog.Nop())
	handler := handlers.NewMessageHandler(svc, hub, zerolog.Nop())

	router := gin.New()
	router.POST("/api/messages", handler.Create)
	router.POST("/api/messages/:id/react", handler.React)
	return router, registry, hub
}

func TestMessageHandler_CreateReturnsAuthoritativeMessage(t *testing.T) {
	repo := &mockMessageRepo{
		AppendMessageFunc: func(ctx context.Context, msg *message.Message) (*message.Message, error) {
			persisted := *msg
			persisted.ID = "42"
			persisted.CreatedAt = time.Now()
			return &persisted, nil
		},
	}
	router, _, _ := newMessageTestStack(t, repo)

	w := postJSON(t, router, "/api/messages", gin.H{
		"provisional_id": "temp-1",
		"room_id":        "general",
		"user_id":        "user-1",
		"content":        "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got message.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "temp-1", got.ProvisionalID)
}

func TestMessageHandler_CreateUnknownRoom(t *testing.T) {
	router, _, _ := newMessageTestStack(t, &mockMessageRepo{})

	w := postJSON(t, router, "/api/messages", gin.H{
		"room_id": "ghost",
		"user_id": "user-1",
		"content": "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageHandler_ReactBroadcastsNewCount(t *testing.T) {
	repo := &mockMessageRepo{
		IncrementReactionFunc: func(ctx context.Context, messageID, emoji string) (map[string]int, string, error) {
			return map[string]int{emoji: 2}, "general", nil
		},
	}
	router, _, _ := newMessageTestStack(t, repo)

	w := postJSON(t, router, "/api/messages/msg-1/react", gin.H{"emoji": "👍"})
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Reactions map[string]int `json:"reactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Reactions["👍"])
}

func TestMessageHandler_ReactUnknownMessage(t *testing.T) {
	router, _, _ := newMessageTestStack(t, &mockMessageRepo{})

	w := postJSON(t, router, "/api/messages/ghost/react", gin.H{"emoji": "👍"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
