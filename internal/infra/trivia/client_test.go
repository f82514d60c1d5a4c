package trivia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestFetchParsesQuestions(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response_code": 0,
			"results": [
				{
					"question": "What does &quot;go&quot; compile to?",
					"correct_answer": "machine code",
					"incorrect_answers": ["bytecode", "javascript", "wasm only"]
				},
				{
					"question": "malformed",
					"correct_answer": "x",
					"incorrect_answers": ["just one", "two"]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 15, time.Second)
	questions, err := client.Fetch(context.Background(), 2, "easy")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected malformed tuple filtered, got %d questions", len(questions))
	}
	if questions[0].CorrectAnswer != "machine code" {
		t.Fatalf("unexpected question: %+v", questions[0])
	}
	// Text is passed through still escaped; decoding happens downstream.
	if questions[0].Question != "What does &quot;go&quot; compile to?" {
		t.Fatalf("client must not decode entities: %q", questions[0].Question)
	}

	req, err := http.NewRequest(http.MethodGet, "http://x/?"+gotQuery, nil)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	q := req.URL.Query()
	if q.Get("amount") != "2" || q.Get("difficulty") != "easy" || q.Get("type") != "multiple" || q.Get("category") != "15" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
}

func TestFetchSourceFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"api error code": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response_code": 1, "results": []}`))
		},
		"http error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"garbage body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client := NewClient(server.URL, 0, time.Second)
			_, err := client.Fetch(context.Background(), 10, "medium")
			if !errors.Is(err, domain.ErrSourceUnavailable) {
				t.Fatalf("expected ErrSourceUnavailable, got %v", err)
			}
		})
	}
}

func TestFetchHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, 50*time.Millisecond)
	_, err := client.Fetch(context.Background(), 10, "medium")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected timeout to surface as ErrSourceUnavailable, got %v", err)
	}
}
