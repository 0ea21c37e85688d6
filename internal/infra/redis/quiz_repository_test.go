package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/Lego1st/quizzess/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"7": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	_, err = repo.GetQuiz(context.Background(), "7")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:7:content") {
		t.Fatalf("expected quiz content key to be set")
	}

	// Second call should hit cache, loader not incremented.
	quiz, err := repo.GetQuiz(context.Background(), "7")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if quiz.Title != "Colors" || len(quiz.Questions) != 1 || quiz.Questions[0].Options[0] != "Red" {
		t.Fatalf("cached quiz lost content: %+v", quiz)
	}
}

func TestQuizRepositoryExpiresAndInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"7": sampleQuiz()})}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = repo.GetQuiz(ctx, "7")
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuiz(ctx, "7")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}

	if err := repo.Invalidate(ctx, "7"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:7:content") {
		t.Fatalf("expected key removed")
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:       "7",
		Title:    "Colors",
		Category: 1,
		Questions: []domain.QuizQuestion{
			{Index: 0, Type: "si", Content: "Which color makes us feel hungry?", Options: []string{"Red", "Yellow", "Blue", "Green"}},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestQuizRepositoryZeroTTLDoesNotCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"7": sampleQuiz()})}
	repo := NewQuizRepository(newClient(mr), loader, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := repo.GetQuiz(ctx, "7"); err != nil {
			t.Fatalf("get quiz: %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected every read to load, loader calls=%d", loader.calls)
	}
	if mr.Exists("quiz:7:content") {
		t.Fatalf("expected nothing cached with zero ttl")
	}
}
