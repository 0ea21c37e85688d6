package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// AuthorHandler serves the quiz editor. Each connection owns one draft,
// which lives as long as the connection does, and acts for the session whose
// handle it presented when connecting.
type AuthorHandler struct {
	authoring *app.AuthoringService
	sessions  *app.SessionService
	upgrader  websocket.Upgrader
}

func NewAuthorHandler(authoring *app.AuthoringService, sessions *app.SessionService) *AuthorHandler {
	upgrader := newUpgrader()
	// the editor spends real credentials: same-origin pages only
	upgrader.CheckOrigin = nil
	return &AuthorHandler{authoring: authoring, sessions: sessions, upgrader: upgrader}
}

// authorConn is the session context of one editor connection.
type authorConn struct {
	user   string
	handle string
	draft  *app.DraftStore
}

type setPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type updatePayload struct {
	Index    int             `json:"index"`
	Position int             `json:"position"`
	Question domain.Question `json:"question"`
}

type deletePayload struct {
	Index int `json:"index"`
}

type importPayload struct {
	Table app.Table `json:"table"`
}

type uploadPayload struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"` // base64 in JSON
}

type questionView struct {
	Question domain.Question `json:"question"`
	Slots    int             `json:"slots"`
}

type draftView struct {
	Title      string         `json:"title"`
	Brief      string         `json:"brief"`
	Category   string         `json:"category"`
	Rating     int            `json:"rating"`
	Shuffle    bool           `json:"shuffle"`
	Questions  []questionView `json:"questions"`
	Categories []string       `json:"categories"`
}

type submittedView struct {
	Payload domain.Payload `json:"payload"`
}

// ServeWS upgrades the request and runs the editor protocol until the client
// disconnects. Only the read loop writes to the connection.
func (h *AuthorHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	handle := r.URL.Query().Get("handle")
	if user == "" || handle == "" {
		http.Error(w, "missing user or handle", http.StatusBadRequest)
		return
	}
	if _, err := h.sessions.Authorize(r.Context(), user, handle); err != nil {
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := slog.With("conn", uuid.NewString(), "user", user, "view", "author")
	logger.Info("author connected")
	defer logger.Info("author disconnected")

	ac := &authorConn{user: user, handle: handle, draft: app.NewDraftStore()}
	if err := writeMessage(conn, "draft", h.view(ac.draft)); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		reply, payload, err := h.handle(r.Context(), ac, inbound)
		if err != nil {
			logger.Debug("author message failed", "type", inbound.Type, "err", err)
			if werr := writeError(conn, err); werr != nil {
				return
			}
			continue
		}
		if reply == "submitted" {
			logger.Info("quiz submitted", "title", ac.draft.Snapshot().Title)
		}
		if err := writeMessage(conn, reply, payload); err != nil {
			logger.Warn("ws write error", "err", err)
			return
		}
	}
}

func (h *AuthorHandler) handle(ctx context.Context, ac *authorConn, msg inboundMessage) (string, any, error) {
	draft := ac.draft

	switch msg.Type {
	case "snapshot":
	case "set":
		var p setPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		if err := draft.SetField(p.Field, p.Value); err != nil {
			return "", nil, err
		}
	case "add":
		draft.AddQuestion()
	case "update":
		var p updatePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		if err := draft.UpdateQuestion(p.Index, p.Question); err != nil {
			return "", nil, err
		}
	case "updateAt":
		var p updatePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		if err := draft.UpdateQuestionAt(p.Position, p.Question); err != nil {
			return "", nil, err
		}
	case "delete":
		var p deletePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		if err := draft.DeleteQuestion(p.Index); err != nil {
			return "", nil, err
		}
	case "import":
		var p importPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		questions, err := app.Decode(p.Table)
		if err != nil {
			return "", nil, err
		}
		if err := draft.ReplaceAllQuestions(questions); err != nil {
			return "", nil, err
		}
	case "upload":
		var p uploadPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return "", nil, err
		}
		if _, err := h.sessions.Authorize(ctx, ac.user, ac.handle); err != nil {
			return "", nil, err
		}
		questions, err := h.authoring.Upload(ctx, ac.user, p.FileName, p.Data)
		if err != nil {
			return "", nil, err
		}
		if err := draft.ReplaceAllQuestions(questions); err != nil {
			return "", nil, err
		}
	case "submit":
		if _, err := h.sessions.Authorize(ctx, ac.user, ac.handle); err != nil {
			return "", nil, err
		}
		payload, err := h.authoring.Submit(ctx, ac.user, draft.Snapshot())
		if err != nil {
			return "", nil, err
		}
		return "submitted", submittedView{Payload: payload}, nil
	default:
		return "", nil, &domain.ValidationError{Field: "type", Index: -1, Reason: "unsupported message type " + msg.Type}
	}
	return "draft", h.view(draft), nil
}

func (h *AuthorHandler) view(draft *app.DraftStore) draftView {
	snap := draft.Snapshot()
	visible := draft.Visible()
	questions := make([]questionView, 0, len(visible))
	for _, q := range visible {
		questions = append(questions, questionView{Question: q, Slots: q.SlotCount()})
	}
	return draftView{
		Title:      snap.Title,
		Brief:      snap.Brief,
		Category:   snap.Category,
		Rating:     snap.Rating,
		Shuffle:    snap.Shuffle,
		Questions:  questions,
		Categories: h.authoring.Categories(),
	}
}
