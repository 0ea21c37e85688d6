package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz content from its source (backend API, mirror DB).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches fetched quizzes in Redis so several view servers can
// share one cache. Each quiz is stored as JSON under quiz:{quizID}:content.
// A ttl of zero or less disables caching.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		ttl := r.ttlWithJitter()
		if ttl <= 0 {
			return quiz, nil
		}
		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, err
		}
		if err := r.client.Set(ctx, r.contentKey(quizID), data, ttl).Err(); err != nil {
			slog.Warn("cache quiz in redis", "quiz", quizID, "err", err)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate drops a cached quiz so the next read reloads it.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.contentKey(quizID)).Err()
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.contentKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("read quiz cache", "quiz", quizID, "err", err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		slog.Warn("corrupt quiz cache entry", "quiz", quizID, "err", err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) contentKey(quizID string) string {
	return "quiz:" + quizID + ":content"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
