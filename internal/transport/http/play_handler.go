package http

import (
	"log/slog"
	"net/http"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// PlayHandler serves the quiz-taking view: one player per connection.
type PlayHandler struct {
	play     *app.PlayService
	upgrader websocket.Upgrader
}

func NewPlayHandler(play *app.PlayService) *PlayHandler {
	return &PlayHandler{play: play, upgrader: newUpgrader()}
}

type gotoPayload struct {
	Page int `json:"page"`
}

type answerPayload struct {
	QuestionID int             `json:"questionId"`
	Response   domain.Response `json:"response"`
}

type quizView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Brief    string `json:"brief"`
	Category string `json:"category"`
	Shuffle  bool   `json:"shuffle"`
	Total    int    `json:"total"`
}

type pageView struct {
	Question   *domain.QuizQuestion `json:"question"`
	Response   domain.Response      `json:"response"`
	Pagination app.Pagination       `json:"pagination"`
}

type answersView struct {
	Answers map[int]domain.Response `json:"answers"`
}

// ServeWS loads the requested quiz, then serves page navigation and answers.
func (h *PlayHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := slog.With("conn", uuid.NewString(), "quiz", quizID, "view", "play")

	player, err := h.play.Open(r.Context(), quizID)
	if err != nil {
		logger.Warn("open quiz", "err", err)
		_ = writeError(conn, err)
		return
	}
	logger.Info("quiz opened", "questions", player.Total())

	quiz := player.Quiz()
	if err := writeMessage(conn, "quiz", quizView{
		ID:       quiz.ID,
		Title:    quiz.Title,
		Brief:    quiz.Brief,
		Category: h.play.CategoryName(quiz.Category),
		Shuffle:  quiz.Shuffle,
		Total:    player.Total(),
	}); err != nil {
		return
	}
	if err := writeMessage(conn, "page", pageOf(player)); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		var (
			reply   string
			payload any
			herr    error
		)
		switch inbound.Type {
		case "goto":
			var p gotoPayload
			if herr = decodePayload(inbound.Payload, &p); herr == nil {
				herr = player.GoToPage(p.Page)
			}
			reply, payload = "page", pageOf(player)
		case "answer":
			var p answerPayload
			if herr = decodePayload(inbound.Payload, &p); herr == nil {
				herr = player.RecordAnswer(p.QuestionID, p.Response)
			}
			reply, payload = "page", pageOf(player)
		case "answers":
			reply, payload = "answers", answersView{Answers: player.Answers()}
		default:
			herr = &domain.ValidationError{Field: "type", Index: -1, Reason: "unsupported message type " + inbound.Type}
		}

		if herr != nil {
			if err := writeError(conn, herr); err != nil {
				return
			}
			continue
		}
		if err := writeMessage(conn, reply, payload); err != nil {
			logger.Warn("ws write error", "err", err)
			return
		}
	}
}

func pageOf(player *app.Player) pageView {
	view := pageView{Pagination: player.Pagination()}
	if q, ok := player.Current(); ok {
		view.Question = &q
		view.Response = player.Answers()[q.Index]
	}
	return view
}
