package wsserver

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	commandTimeout = 10 * time.Second
)

// Command is one inbound session command from the transport.
type Command struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Emoji     string `json:"emoji,omitempty"`

	Message *SendMessagePayload `json:"message,omitempty"`
	Room    *CreateRoomPayload  `json:"room,omitempty"`
}

// SendMessagePayload carries a client-authored provisional message.
type SendMessagePayload struct {
	ProvisionalID string `json:"provisional_id"`
	Content       string `json:"content"`
	Type          string `json:"type"`
}

// CreateRoomPayload carries a room creation request.
type CreateRoomPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// client couples one websocket connection to its session. The read pump
// consumes commands; the write pump drains the session's event stream.
type client struct {
	conn    *websocket.Conn
	session *realtime.Session
	h       *Handler
	log     zerolog.Logger
}

func newClient(conn *websocket.Conn, session *realtime.Session, h *Handler) *client {
	return &client{
		conn:    conn,
		session: session,
		h:       h,
		log:     h.log.With().Str("session_id", session.ID).Logger(),
	}
}

// readPump reads commands from the connection until it closes or errors.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		c.dispatch(cmd)
	}
}

// writePump writes session events to the connection and keeps it alive with
// pings. It exits when the session is destroyed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.session.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.Warn().Err(err).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.session.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *client) dispatch(cmd Command) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch cmd.Type {
	case "join_room":
		c.joinRoom(ctx, cmd.RoomID)
	case "typing":
		userName := cmd.UserName
		if userName == "" {
			userName = c.session.UserName
		}
		c.h.manager.OnTypingActivity(c.session.ID, cmd.RoomID, userName)
	case "stop_typing":
		c.h.manager.OnTypingStop(c.session.ID, cmd.RoomID)
	case "send_message":
		c.sendMessage(ctx, cmd)
	case "react":
		c.react(ctx, cmd.MessageID, cmd.Emoji)
	case "create_room":
		c.createRoom(ctx, cmd.Room)
	default:
		c.reply(realtime.CommandError("unknown_command", "unknown command type: "+cmd.Type))
	}
}

func (c *client) joinRoom(ctx context.Context, roomID string) {
	if err := c.h.manager.OnJoinRoom(c.session.ID, roomID); err != nil {
		c.reply(realtime.CommandError("room_not_found", "room not found: "+roomID))
		return
	}
	// Durable membership grows via join; failures here don't unwind the
	// transient join.
	if err := c.h.rooms.AddMember(ctx, roomID, c.session.UserID); err != nil {
		c.log.Warn().Err(err).Str("room_id", roomID).Msg("record room membership")
	}
}

func (c *client) sendMessage(ctx context.Context, cmd Command) {
	if cmd.Message == nil {
		c.reply(realtime.CommandError("bad_request", "send_message requires a message payload"))
		return
	}

	persisted, err := c.h.messages.Submit(ctx, &message.Message{
		ProvisionalID: cmd.Message.ProvisionalID,
		RoomID:        cmd.RoomID,
		UserID:        c.session.UserID,
		Content:       cmd.Message.Content,
		Type:          message.Type(cmd.Message.Type),
	})
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			c.reply(realtime.CommandError("room_not_found", "room not found: "+cmd.RoomID))
			return
		}
		c.reply(realtime.CommandError("persistence_failure", "message could not be stored, please resend"))
		return
	}

	c.h.hub.Broadcast(persisted.RoomID, realtime.MessageReceived(persisted), "")
}

func (c *client) react(ctx context.Context, messageID, emoji string) {
	counts, roomID, err := c.h.messages.React(ctx, messageID, emoji)
	if err != nil {
		if errors.Is(err, message.ErrNotFound) {
			c.reply(realtime.CommandError("message_not_found", "message not found: "+messageID))
			return
		}
		c.reply(realtime.CommandError("persistence_failure", "reaction could not be stored, please retry"))
		return
	}

	c.h.hub.Broadcast(roomID, realtime.ReactionUpdated(messageID, emoji, counts[emoji]), "")
}

func (c *client) createRoom(ctx context.Context, payload *CreateRoomPayload) {
	if payload == nil {
		c.reply(realtime.CommandError("bad_request", "create_room requires a room payload"))
		return
	}

	r, err := c.h.rooms.Create(ctx, payload.Name, payload.Description, c.session.UserID)
	if err != nil {
		c.reply(realtime.CommandError("persistence_failure", "room could not be created"))
		return
	}

	c.h.registry.RegisterRoom(r.ID)
	c.h.hub.BroadcastAll(realtime.RoomCreated(r))
}

// reply sends an event to this session only.
func (c *client) reply(ev realtime.Event) {
	c.h.hub.SendTo(c.session.ID, ev)
}
