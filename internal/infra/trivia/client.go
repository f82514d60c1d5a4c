package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	// DefaultBaseURL is the Open Trivia DB question endpoint.
	DefaultBaseURL = "https://opentdb.com/api.php"
	// DefaultCategory is the video games category, matching the original
	// deployment.
	DefaultCategory = 15
	// DefaultTimeout bounds each upstream pull so a hung source surfaces as
	// ErrSourceUnavailable instead of hanging the caller.
	DefaultTimeout = 10 * time.Second
)

// Client fetches multiple-choice question tuples from Open Trivia DB. It
// performs no shuffling; escaped text is passed through as delivered.
type Client struct {
	baseURL    string
	category   int
	httpClient *http.Client
}

func NewClient(baseURL string, category int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if category <= 0 {
		category = DefaultCategory
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		category:   category,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	ResponseCode int                  `json:"response_code"`
	Results      []domain.RawQuestion `json:"results"`
}

// Fetch pulls amount questions at the given difficulty. Transport errors,
// non-200 statuses and non-zero API response codes all surface as
// domain.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context, amount int, difficulty string) ([]domain.RawQuestion, error) {
	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))
	query.Set("category", strconv.Itoa(c.category))
	query.Set("difficulty", difficulty)
	query.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrSourceUnavailable, err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("%w: response code %d", domain.ErrSourceUnavailable, payload.ResponseCode)
	}

	// Drop tuples that violate the exactly-four-choices contract so the
	// randomizer never sees them.
	results := payload.Results[:0]
	for _, rq := range payload.Results {
		if len(rq.IncorrectAnswers) == len(domain.ChoiceLabels)-1 {
			results = append(results, rq)
		}
	}
	return results, nil
}
