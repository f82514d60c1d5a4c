package app

import (
	"context"
	"math/rand"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	// DefaultQuestionCount is used when a client omits or mangles the amount.
	DefaultQuestionCount = 10
	// DefaultDifficulty matches the original deployment's trivia pulls.
	DefaultDifficulty = "medium"
)

// QuestionSource fetches raw question tuples (upstream API, cache, or a
// static set). Implementations perform no shuffling.
type QuestionSource interface {
	Fetch(ctx context.Context, amount int, difficulty string) ([]domain.RawQuestion, error)
}

// QuizService turns raw source questions into client-facing quiz payloads.
// It keeps no record of which question set was issued to which caller; the
// later score submission is trusted at face value.
type QuizService struct {
	source  QuestionSource
	newRand func() *rand.Rand
}

func NewQuizService(source QuestionSource) *QuizService {
	return &QuizService{
		source: source,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewQuizServiceWithRand is test-only for deterministic shuffles.
func NewQuizServiceWithRand(source QuestionSource, newRand func() *rand.Rand) *QuizService {
	return &QuizService{source: source, newRand: newRand}
}

// GetQuiz fetches amount questions at the given difficulty, then decodes and
// shuffles each one with an independent random draw. Source failures
// propagate as domain.ErrSourceUnavailable; no placeholder questions are
// fabricated.
func (s *QuizService) GetQuiz(ctx context.Context, amount int, difficulty string) ([]domain.Question, error) {
	if amount <= 0 {
		amount = DefaultQuestionCount
	}
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	raw, err := s.source.Fetch(ctx, amount, difficulty)
	if err != nil {
		return nil, err
	}

	rnd := s.newRand()
	questions := make([]domain.Question, 0, len(raw))
	for _, rq := range raw {
		// Source contract is exactly three incorrect answers per tuple.
		if len(rq.IncorrectAnswers) != len(domain.ChoiceLabels)-1 {
			continue
		}
		questions = append(questions, buildQuestion(rnd, rq))
	}
	return questions, nil
}
