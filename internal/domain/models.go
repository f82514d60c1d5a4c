package domain

import "time"

// ChoiceLabels are the positions addressable by quiz clients, in display order.
var ChoiceLabels = [4]string{"A", "B", "C", "D"}

// RawQuestion is one question/answer tuple as delivered by the question
// source, text still carrying any HTML entity escaping.
type RawQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Question is a client-facing quiz question after decoding and shuffling.
// CorrectLabel names the position (A-D) the originally-correct choice landed
// on; once issued it is never re-validated server-side.
type Question struct {
	Text         string
	Choices      [4]string
	CorrectLabel string
}

// Attempt is one immutable record of a completed quiz.
type Attempt struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CreatedAt      time.Time `json:"date"`
}

// User identity; PasswordHash never leaves the auth boundary.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// LeaderboardEntry is a user's best recorded score.
type LeaderboardEntry struct {
	Username string `json:"username"`
	MaxScore int    `json:"maxScore"`
}

// Profile bundles a user's identity with their attempt history, most recent
// first.
type Profile struct {
	User     User      `json:"user"`
	Attempts []Attempt `json:"scores"`
}
