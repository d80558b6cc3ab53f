package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/domain"
)

type WSHandler struct {
	service        *app.GameService
	defaultCatalog string
	upgrader       websocket.Upgrader
}

func NewWSHandler(service *app.GameService, defaultCatalog string) *WSHandler {
	return &WSHandler{
		service:        service,
		defaultCatalog: defaultCatalog,
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

type clickPayload struct {
	RegionID string `json:"regionId"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	CatalogID string `json:"catalogId"`
}

type tickPayload struct {
	TimerText string `json:"timerText"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsRenderer queues engine output for the connection writer. Once the writer is
// gone, output is dropped so the engine never blocks on a dead connection.
type wsRenderer struct {
	send chan<- outboundMessage[any]
	done <-chan struct{}
}

func (r *wsRenderer) push(typ string, payload any) {
	select {
	case r.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-r.done:
	}
}

func (r *wsRenderer) Render(view domain.View) { r.push("view", view) }
func (r *wsRenderer) Highlight(h domain.Highlight) { r.push("highlight", h) }
func (r *wsRenderer) Tick(text string) { r.push("tick", tickPayload{TimerText: text}) }
func (r *wsRenderer) GameOver(summary domain.Summary) { r.push("gameOver", summary) }

// ServeWS upgrades HTTP requests to websockets and binds each connection to one game.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	catalogID := r.URL.Query().Get("catalogId")
	if catalogID == "" {
		catalogID = h.defaultCatalog
	}

	send := make(chan outboundMessage[any], 64)
	writerDone := make(chan struct{})
	out := &wsRenderer{send: send, done: writerDone}

	sessionID, view, err := h.service.Open(r.Context(), catalogID, out)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("open game failed: %v", err)
		http.Error(w, "could not open game", http.StatusInternalServerError)
		return
	}
	defer h.service.Close(r.Context(), sessionID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error session=%s: %v", sessionID, err)
				return
			}
		}
	}()

	log.Printf("game opened session=%s catalog=%s", sessionID, catalogID)
	out.push("session", sessionPayload{SessionID: sessionID, CatalogID: catalogID})
	out.push("view", view)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, sessionID, inbound, out); err != nil {
			out.push("error", errorPayload{Message: err.Error()})
		}
	}

	// Close before closing send: a closed engine never renders again.
	h.service.Close(r.Context(), sessionID)
	close(send)
	<-writerDone
	log.Printf("game closed session=%s", sessionID)
}

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnsupported    = errors.New("unsupported message type")
)

func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage, out *wsRenderer) error {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		if len(inbound.Payload) == 0 || string(inbound.Payload) == "null" {
			_, err := h.service.StartWithPreferences(ctx, sessionID)
			return err
		}
		var opts domain.Options
		if err := json.Unmarshal(inbound.Payload, &opts); err != nil {
			return errInvalidPayload
		}
		_, err := h.service.Start(ctx, sessionID, opts)
		return err
	case "click":
		var payload clickPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		_, err := h.service.Click(ctx, sessionID, payload.RegionID)
		return err
	case "options":
		var prefs domain.Preferences
		if err := json.Unmarshal(inbound.Payload, &prefs); err != nil {
			return errInvalidPayload
		}
		return h.service.SetPreferences(ctx, sessionID, prefs)
	case "reset":
		return h.service.Reset(ctx, sessionID)
	case "home":
		return h.service.Home(ctx, sessionID)
	case "state":
		state, err := h.service.State(ctx, sessionID)
		if err != nil {
			return err
		}
		out.push("state", state)
		return nil
	default:
		return errUnsupported
	}
}
