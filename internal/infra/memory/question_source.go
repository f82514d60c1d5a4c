package memory

import (
	"context"

	"trivia-quiz-service/internal/domain"
)

// StaticQuestionSource serves a fixed question set (useful for tests/demos).
type StaticQuestionSource struct {
	questions []domain.RawQuestion
}

func NewStaticQuestionSource(questions []domain.RawQuestion) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

func (s *StaticQuestionSource) Fetch(_ context.Context, amount int, _ string) ([]domain.RawQuestion, error) {
	if len(s.questions) == 0 {
		return nil, domain.ErrSourceUnavailable
	}
	if amount > len(s.questions) {
		amount = len(s.questions)
	}
	result := make([]domain.RawQuestion, amount)
	copy(result, s.questions[:amount])
	return result, nil
}
