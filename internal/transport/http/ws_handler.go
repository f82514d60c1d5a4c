package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// FeedHandler streams leaderboard snapshots over a websocket. Public like the
// HTTP leaderboard view: clients receive the current ranking on connect and a
// fresh frame after every score submission.
type FeedHandler struct {
	scores   *app.ScoreService
	feed     *app.LeaderboardFeed
	upgrader websocket.Upgrader
}

func NewFeedHandler(scores *app.ScoreService, feed *app.LeaderboardFeed) *FeedHandler {
	return &FeedHandler{
		scores: scores,
		feed:   feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type feedFrame struct {
	Type    string                    `json:"type"`
	Payload []domain.LeaderboardEntry `json:"payload"`
}

func (h *FeedHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	initial, err := h.scores.Leaderboard(r.Context())
	if err != nil {
		log.Printf("ws feed: initial snapshot: %v", err)
		return
	}

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(feedFrame{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	// Drain reads so close frames are processed; inbound data is ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(feedFrame{Type: "leaderboard", Payload: entries}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
