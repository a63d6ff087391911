package http

import (
	"encoding/json"
	"log"
	"net/http"

	"classroom-live-service/internal/app"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades connections and routes classroom events. Each
// connection gets an opaque id; the classroom uses it as the session handle.
type WSHandler struct {
	classroom *app.Classroom
	upgrader  websocket.Upgrader
}

func NewWSHandler(classroom *app.Classroom) *WSHandler {
	return &WSHandler{
		classroom: classroom,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type discussionPayload struct {
	Text     string `json:"text"`
	Nickname string `json:"nickname"`
}

// ServeWS runs one connection: snapshot push on connect, then a read loop
// that dispatches client actions into the classroom. Domain actions never
// produce error responses; malformed payloads are dropped silently.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	updates := h.classroom.Connect(connID)

	send := make(chan app.Event, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- update:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "join":
			var nickname string
			if err := json.Unmarshal(inbound.Payload, &nickname); err != nil {
				continue
			}
			h.classroom.Join(connID, nickname)
		case "startQuiz":
			h.classroom.StartQuiz(connID)
		case "submitAnswer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.classroom.SubmitAnswer(connID, payload.Answer)
		case "getQuestion":
			h.classroom.GetQuestion(connID)
		case "startDiscussion":
			h.classroom.StartDiscussion(connID)
		case "nextDiscussionQuestion":
			h.classroom.NextDiscussionQuestion(connID)
		case "submitDiscussion":
			var payload discussionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.classroom.SubmitDiscussion(connID, payload.Text, payload.Nickname)
		default:
			// Unknown client events are ignored.
		}
	}

	close(closeSignals)
	h.classroom.Disconnect(connID)
	<-updatesDone
	close(send)
	<-writerDone
}
