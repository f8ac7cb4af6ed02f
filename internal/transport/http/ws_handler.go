package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"trivia-session-service/internal/app"
	"trivia-session-service/internal/domain"
	"github.com/gorilla/websocket"
)

// EngineFactory builds one session engine per connection.
type EngineFactory func() *app.Engine

// WSHandler exposes the quiz session over a websocket: the session starts on
// connect and the client drives it with answer/next/previous/retry commands.
type WSHandler struct {
	newEngine    EngineFactory
	defaultCount int
	upgrader     websocket.Upgrader
}

func NewWSHandler(factory EngineFactory, defaultCount int) *WSHandler {
	return &WSHandler{
		newEngine:    factory,
		defaultCount: defaultCount,
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one quiz session over the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get("name")
	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = h.defaultCount
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	engine := h.newEngine()
	updates, cancel := engine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
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
		reportSent := false
		for {
			select {
			case snapshot, ok := <-updates:
				if !ok {
					return
				}
				out := outboundMessage[any]{Type: "state", Payload: snapshot}
				select {
				case send <- out:
				case <-closeSignals:
					return
				}
				if snapshot.Status == domain.StatusCompleted && !reportSent {
					if report, ok := engine.Report(); ok {
						reportSent = true
						select {
						case send <- outboundMessage[any]{Type: "report", Payload: report}:
						case <-closeSignals:
							return
						}
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Start blocks through the retry schedule, so it runs off the read loop;
	// progress reaches the client through the subscription.
	go func() {
		if err := engine.Start(r.Context(), playerName, difficulty, count); err != nil {
			log.Printf("session start failed: %v", err)
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := engine.SubmitAnswer(r.Context(), payload.Answer); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "next":
			if err := engine.Next(r.Context()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "previous":
			if err := engine.Previous(r.Context()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "retry":
			go func() {
				if err := engine.Retry(r.Context()); err != nil {
					log.Printf("session retry failed: %v", err)
				}
			}()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
