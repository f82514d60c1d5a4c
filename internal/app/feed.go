package app

import (
	"sync"

	"trivia-quiz-service/internal/domain"
)

// LeaderboardFeed fans leaderboard snapshots out to live subscribers
// (websocket connections). Slow consumers have their stale frame dropped so
// publishing never blocks.
type LeaderboardFeed struct {
	mu          sync.Mutex
	subscribers map[chan []domain.LeaderboardEntry]struct{}
}

func NewLeaderboardFeed() *LeaderboardFeed {
	return &LeaderboardFeed{
		subscribers: make(map[chan []domain.LeaderboardEntry]struct{}),
	}
}

// Subscribe registers a new consumer. The caller must invoke the returned
// cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe() (<-chan []domain.LeaderboardEntry, func()) {
	ch := make(chan []domain.LeaderboardEntry, 1)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// HasSubscribers reports whether anyone is listening, letting publishers skip
// recomputing snapshots nobody will see.
func (f *LeaderboardFeed) HasSubscribers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) > 0
}

// Publish delivers a snapshot to every subscriber, replacing an undelivered
// stale frame rather than blocking.
func (f *LeaderboardFeed) Publish(entries []domain.LeaderboardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- entries:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- entries
		}
	}
}
