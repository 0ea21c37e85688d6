package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/google/uuid"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionRepository abstracts where credentials are kept (in-memory, Redis, etc).
// Get returns domain.ErrSessionNotFound for unknown or expired entries.
type SessionRepository interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, username string) (domain.Session, error)
	Delete(ctx context.Context, username string) error
}

// QuizAPI is the remote backend.
type QuizAPI interface {
	CreateQuiz(ctx context.Context, session domain.Session, payload domain.Payload) error
	UploadQuizFile(ctx context.Context, session domain.Session, fileName string, data []byte) (Table, error)
	FetchQuiz(ctx context.Context, session domain.Session, quizID string) (domain.Quiz, error)
}

// SessionService hands out credentials to whoever needs to call the backend.
type SessionService struct {
	store SessionRepository
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(store SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

// Acquire records a token for username under a fresh handle, replacing any
// earlier session of that user. The session expires after the configured
// TTL; a zero TTL never expires.
func (s *SessionService) Acquire(ctx context.Context, username, token string) (domain.Session, error) {
	if username == "" || token == "" {
		return domain.Session{}, &domain.ValidationError{Field: "session", Index: -1, Reason: "username and token are required"}
	}
	now := s.now()
	session := domain.Session{Username: username, Token: token, Handle: uuid.NewString(), IssuedAt: now}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}
	if err := s.store.Put(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Lookup returns a valid session for username.
func (s *SessionService) Lookup(ctx context.Context, username string) (domain.Session, error) {
	session, err := s.store.Get(ctx, username)
	if err != nil {
		return domain.Session{}, err
	}
	if !session.Valid(s.now()) {
		_ = s.store.Delete(ctx, username)
		return domain.Session{}, domain.ErrSessionExpired
	}
	return session, nil
}

// Authorize returns the session of username only when handle is the one
// issued with it. A wrong handle is reported like a missing session.
func (s *SessionService) Authorize(ctx context.Context, username, handle string) (domain.Session, error) {
	if handle == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	session, err := s.Lookup(ctx, username)
	if err != nil {
		return domain.Session{}, err
	}
	if subtle.ConstantTimeCompare([]byte(session.Handle), []byte(handle)) != 1 {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Release forgets the credentials for username.
func (s *SessionService) Release(ctx context.Context, username string) error {
	return s.store.Delete(ctx, username)
}

// AuthoringService submits drafts and imports uploaded sheets.
type AuthoringService struct {
	api        QuizAPI
	sessions   *SessionService
	categories *domain.CategoryCodec
}

func NewAuthoringService(api QuizAPI, sessions *SessionService, categories *domain.CategoryCodec) *AuthoringService {
	return &AuthoringService{api: api, sessions: sessions, categories: categories}
}

func (s *AuthoringService) Categories() []string {
	return s.categories.Names()
}

// Prepare encodes and validates a draft without sending it.
func (s *AuthoringService) Prepare(draft domain.Draft) (domain.Payload, error) {
	payload, err := Encode(draft, s.categories)
	if err != nil {
		return domain.Payload{}, err
	}
	if err := Validate(payload); err != nil {
		return domain.Payload{}, err
	}
	return payload, nil
}

// Submit sends the draft to the create-quiz endpoint on behalf of username.
func (s *AuthoringService) Submit(ctx context.Context, username string, draft domain.Draft) (domain.Payload, error) {
	payload, err := s.Prepare(draft)
	if err != nil {
		return domain.Payload{}, err
	}
	session, err := s.sessions.Lookup(ctx, username)
	if err != nil {
		return domain.Payload{}, err
	}
	if err := s.api.CreateQuiz(ctx, session, payload); err != nil {
		return domain.Payload{}, err
	}
	return payload, nil
}

// Upload sends a spreadsheet to the backend and decodes the returned table.
// The caller replaces its draft questions only when this succeeds.
func (s *AuthoringService) Upload(ctx context.Context, username, fileName string, data []byte) ([]domain.Question, error) {
	session, err := s.sessions.Lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	table, err := s.api.UploadQuizFile(ctx, session, fileName, data)
	if err != nil {
		return nil, err
	}
	return Decode(table)
}

// PlayService opens quizzes for takers.
type PlayService struct {
	quizzes    QuizRepository
	categories *domain.CategoryCodec
}

func NewPlayService(quizzes QuizRepository, categories *domain.CategoryCodec) *PlayService {
	return &PlayService{quizzes: quizzes, categories: categories}
}

// Open loads a quiz and starts a fresh player on page 1.
func (s *PlayService) Open(ctx context.Context, quizID string) (*Player, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return NewPlayer(quiz), nil
}

// CategoryName returns the display name of a category code, or "" if unknown.
func (s *PlayService) CategoryName(code int) string {
	name, _ := s.categories.Decode(code)
	return name
}
