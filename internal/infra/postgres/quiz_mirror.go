package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Upstream is where the mirror fetches quizzes it has not stored yet.
type Upstream interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizMirror keeps a local copy of fetched quizzes as JSONB so that quizzes
// already seen can be served without the backend. Without an upstream it is a
// read-only store.
type QuizMirror struct {
	pool     *pgxpool.Pool
	upstream Upstream
}

func NewQuizMirror(pool *pgxpool.Pool, upstream Upstream) *QuizMirror {
	return &QuizMirror{pool: pool, upstream: upstream}
}

// LoadQuiz returns the stored copy, or fetches and stores it upstream.
func (m *QuizMirror) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := m.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	switch {
	case err == nil:
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
		}
		return quiz, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	case m.upstream == nil:
		return domain.Quiz{}, domain.ErrQuizNotFound
	}

	quiz, err := m.upstream.LoadQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	if err := m.SaveQuiz(ctx, quiz); err != nil {
		// the fetched quiz is still usable
		slog.Warn("mirror quiz", "quiz", quizID, "err", err)
	}
	return quiz, nil
}

// SaveQuiz inserts or replaces the stored copy of quiz.
func (m *QuizMirror) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	if quiz.ID == "" {
		return &domain.ValidationError{Field: "id", Index: -1, Reason: "quiz id is required"}
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	_, err = m.pool.Exec(ctx, `
INSERT INTO quizzes (id, title, category, data, fetched_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title, category = EXCLUDED.category, data = EXCLUDED.data, fetched_at = now()`,
		quiz.ID, quiz.Title, quiz.Category, data)
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}
