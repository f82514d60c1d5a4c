package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/domain"
)

// Handler wires the quiz and score use cases to the JSON API.
type Handler struct {
	quiz   *app.QuizService
	scores *app.ScoreService
	users  app.UserRepository
	auth   *auth.Service
}

func NewHandler(quiz *app.QuizService, scores *app.ScoreService, users app.UserRepository, authService *auth.Service) *Handler {
	return &Handler{quiz: quiz, scores: scores, users: users, auth: authService}
}

// questionPayload preserves the original wire shape: the four choices keyed
// by position label plus the label of the correct one.
type questionPayload struct {
	Question string `json:"question"`
	A        string `json:"A"`
	B        string `json:"B"`
	C        string `json:"C"`
	D        string `json:"D"`
	Answer   string `json:"answer"`
}

// Signup registers a new user. Credential handling stays inside the auth
// package; duplicate emails are reported in the response envelope, not as an
// HTTP error.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.users.UserByEmail(r.Context(), req.Email); err == nil {
		writeFailure(w, http.StatusOK, "Email already in use")
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("signup: lookup email: %v", err)
		writeFailure(w, http.StatusOK, "Server error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("signup: hash password: %v", err)
		writeFailure(w, http.StatusOK, "Server error")
		return
	}

	_, err = h.users.CreateUser(r.Context(), domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		writeFailure(w, http.StatusOK, "Email already in use")
		return
	}
	if err != nil {
		log.Printf("signup: create user: %v", err)
		writeFailure(w, http.StatusOK, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeFailure(w, http.StatusOK, "Email not found")
		return
	}
	if err != nil {
		log.Printf("login: lookup email: %v", err)
		writeFailure(w, http.StatusOK, "Server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeFailure(w, http.StatusOK, "Invalid password")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		log.Printf("login: issue token: %v", err)
		writeFailure(w, http.StatusOK, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// Quiz returns a freshly randomized question set for the verified caller.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	amount, _ := strconv.Atoi(r.URL.Query().Get("amount"))
	difficulty := r.URL.Query().Get("difficulty")

	questions, err := h.quiz.GetQuiz(r.Context(), amount, difficulty)
	if err != nil {
		log.Printf("quiz: %v", err)
		writeFailure(w, http.StatusOK, "Could not fetch questions from API")
		return
	}

	payload := make([]questionPayload, 0, len(questions))
	for _, q := range questions {
		payload = append(payload, questionPayload{
			Question: q.Text,
			A:        q.Choices[0],
			B:        q.Choices[1],
			C:        q.Choices[2],
			D:        q.Choices[3],
			Answer:   q.CorrectLabel,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "questions": payload})
}

// SaveScore persists one completed quiz attempt for the verified caller. A
// non-numeric score is a 400; persistence failure is a 500 with a generic
// message.
func (h *Handler) SaveScore(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Access denied")
		return
	}

	var req struct {
		Score          *float64 `json:"score"`
		TotalQuestions int      `json:"totalQuestions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		writeFailure(w, http.StatusBadRequest, "Invalid score value")
		return
	}

	attempt, err := h.scores.SubmitScore(r.Context(), identity.ID, *req.Score, req.TotalQuestions)
	if errors.Is(err, domain.ErrInvalidScore) {
		writeFailure(w, http.StatusBadRequest, "Invalid score value")
		return
	}
	if err != nil {
		log.Printf("save-score: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Could not save score")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "score": attempt})
}

// Profile returns the caller's identity and attempt history, newest first.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Access denied")
		return
	}

	profile, err := h.scores.Profile(r.Context(), identity.ID)
	if err != nil {
		log.Printf("profile: %v", err)
		writeFailure(w, http.StatusOK, "Could not fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    profile.User,
		"scores":  profile.Attempts,
	})
}

// Leaderboard is the public ranked top-ten view.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scores.Leaderboard(r.Context())
	if err != nil {
		log.Printf("leaderboard: %v", err)
		writeFailure(w, http.StatusOK, "Could not load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "leaderboard": entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}
