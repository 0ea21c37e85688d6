package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSessions map[string]domain.Session

func (m mapSessions) Put(_ context.Context, s domain.Session) error {
	m[s.Username] = s
	return nil
}

func (m mapSessions) Get(_ context.Context, username string) (domain.Session, error) {
	s, ok := m[username]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m mapSessions) Delete(_ context.Context, username string) error {
	delete(m, username)
	return nil
}

type fakeAPI struct {
	created []domain.Payload
	tokens  []string
	table   Table
	err     error
}

func (f *fakeAPI) CreateQuiz(_ context.Context, s domain.Session, p domain.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, s.Token)
	f.created = append(f.created, p)
	return nil
}

func (f *fakeAPI) UploadQuizFile(_ context.Context, s domain.Session, _ string, _ []byte) (Table, error) {
	f.tokens = append(f.tokens, s.Token)
	return f.table, f.err
}

func (f *fakeAPI) FetchQuiz(context.Context, domain.Session, string) (domain.Quiz, error) {
	return domain.Quiz{}, domain.ErrQuizNotFound
}

type staticQuizzes map[string]domain.Quiz

func (s staticQuizzes) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	q, ok := s[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return q, nil
}

func newTestAuthoring(t *testing.T, api *fakeAPI) (*AuthoringService, *SessionService) {
	t.Helper()
	sessions := NewSessionService(mapSessions{}, time.Hour)
	_, err := sessions.Acquire(context.Background(), "alice", "tok-1")
	require.NoError(t, err)
	return NewAuthoringService(api, sessions, testCategories), sessions
}

func submittableDraft() *DraftStore {
	store := NewDraftStore()
	store.SetCategory("Science")
	q := store.AddQuestion()
	q.Content = "Hungry color?"
	q.Options = []string{"Red", "Yellow", "Blue", "Green"}
	q.Correct = []int{0}
	_ = store.UpdateQuestion(q.Index, q)
	return store
}

func TestSubmitSendsEncodedPayloadWithSessionToken(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestAuthoring(t, api)

	payload, err := svc.Submit(context.Background(), "alice", submittableDraft().Snapshot())
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, payload, api.created[0])
	assert.Equal(t, []string{"Red"}, payload.Questions[0].Answer)
	assert.Equal(t, []string{"tok-1"}, api.tokens)
}

func TestSubmitRejectsUnknownCategoryBeforeSending(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestAuthoring(t, api)

	store := submittableDraft()
	store.SetCategory(domain.DefaultCategory)

	_, err := svc.Submit(context.Background(), "alice", store.Snapshot())
	assert.True(t, errors.Is(err, domain.ErrUnknownCategory))
	assert.Empty(t, api.created)
}

func TestSubmitWithoutSession(t *testing.T) {
	svc, _ := newTestAuthoring(t, &fakeAPI{})

	_, err := svc.Submit(context.Background(), "bob", submittableDraft().Snapshot())
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestSubmitPassesRejection(t *testing.T) {
	api := &fakeAPI{err: &domain.RejectedError{Op: "create quiz", Status: 400, Message: "bad"}}
	svc, _ := newTestAuthoring(t, api)

	_, err := svc.Submit(context.Background(), "alice", submittableDraft().Snapshot())
	var rerr *domain.RejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 400, rerr.Status)
}

func TestUploadDecodesTable(t *testing.T) {
	table, err := ParseUpload([]byte(sampleUpload))
	require.NoError(t, err)
	api := &fakeAPI{table: table}
	svc, _ := newTestAuthoring(t, api)

	questions, err := svc.Upload(context.Background(), "alice", "quiz.xlsx", []byte("sheet"))
	require.NoError(t, err)
	assert.Len(t, questions, 4)
}

func TestUploadSurfacesDecodeError(t *testing.T) {
	api := &fakeAPI{table: Table{Type: Column{json.RawMessage(`0`)}}}
	svc, _ := newTestAuthoring(t, api)

	_, err := svc.Upload(context.Background(), "alice", "quiz.xlsx", nil)
	var derr *domain.DecodeError
	assert.True(t, errors.As(err, &derr))
}

func TestSessionServiceExpiry(t *testing.T) {
	store := mapSessions{}
	sessions := NewSessionService(store, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	s, err := sessions.Acquire(context.Background(), "alice", "tok")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), s.ExpiresAt)

	_, err = sessions.Lookup(context.Background(), "alice")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = sessions.Lookup(context.Background(), "alice")
	assert.True(t, errors.Is(err, domain.ErrSessionExpired))
	assert.NotContains(t, store, "alice")

	_, err = sessions.Acquire(context.Background(), "", "tok")
	assert.Error(t, err)
}

func TestSessionServiceAuthorize(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(mapSessions{}, time.Hour)

	first, err := sessions.Acquire(ctx, "alice", "tok")
	require.NoError(t, err)
	require.NotEmpty(t, first.Handle)

	s, err := sessions.Authorize(ctx, "alice", first.Handle)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)

	for _, handle := range []string{"", "guess", first.Handle + "x"} {
		_, err = sessions.Authorize(ctx, "alice", handle)
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound), "handle %q: %v", handle, err)
	}
	_, err = sessions.Authorize(ctx, "bob", first.Handle)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	second, err := sessions.Acquire(ctx, "alice", "tok-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.Handle, second.Handle)
	_, err = sessions.Authorize(ctx, "alice", first.Handle)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestPlayServiceOpen(t *testing.T) {
	svc := NewPlayService(staticQuizzes{"7": quizWith(2)}, testCategories)

	player, err := svc.Open(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 2, player.Total())
	assert.Equal(t, 1, player.Page())

	_, err = svc.Open(context.Background(), "8")
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))

	assert.Equal(t, "Math", svc.CategoryName(2))
	assert.Equal(t, "", svc.CategoryName(99))
}
