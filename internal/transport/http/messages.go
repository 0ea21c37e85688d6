package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// errorPayload tells the view what failed; Kind selects how it is shown.
type errorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Status  int    `json:"status,omitempty"`
}

func errorView(err error) errorPayload {
	view := errorPayload{Message: err.Error(), Kind: "internal"}

	var (
		validation *domain.ValidationError
		decode     *domain.DecodeError
		network    *domain.NetworkError
		rejected   *domain.RejectedError
		bounds     *domain.BoundsError
	)
	switch {
	case errors.As(err, &validation):
		view.Kind = "validation"
		view.Field = validation.Field
		if validation.Index >= 0 {
			view.Index = &validation.Index
		}
	case errors.As(err, &decode):
		view.Kind = "decode"
		view.Field = decode.Column
		if decode.Row >= 0 {
			view.Index = &decode.Row
		}
	case errors.As(err, &rejected):
		view.Kind = "rejected"
		view.Status = rejected.Status
	case errors.As(err, &network):
		view.Kind = "network"
	case errors.As(err, &bounds):
		view.Kind = "bounds"
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		view.Kind = "session"
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		view.Kind = "not_found"
	}
	return view
}

func writeMessage[T any](conn *websocket.Conn, typ string, payload T) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(outboundMessage[T]{Type: typ, Payload: payload})
}

func writeError(conn *websocket.Conn, err error) error {
	return writeMessage(conn, "error", errorView(err))
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return &domain.ValidationError{Field: "payload", Index: -1, Reason: "missing"}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &domain.ValidationError{Field: "payload", Index: -1, Reason: err.Error(), Err: err}
	}
	return nil
}
