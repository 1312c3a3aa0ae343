package statsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hoopcompare/stats"
	"hoopcompare/utils"
)

type CompareRequest struct {
	Player1 string `json:"player1" validate:"required"`
	Player2 string `json:"player2" validate:"required"`
	Season1 string `json:"season1" validate:"required"`
	Season2 string `json:"season2" validate:"required"`
}

// CompareResponse carries either Error or two season and two career records
// in request order.
type CompareResponse struct {
	Error  string         `json:"error,omitempty"`
	Stats  []stats.Record `json:"stats,omitempty"`
	Career []stats.Record `json:"career,omitempty"`
}

// ErrIncomplete means a response without an error carried fewer than two
// season or career records.
var ErrIncomplete = errors.New("comparison response is incomplete")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Players fetches every player name the service knows.
func (c *Client) Players(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/players", nil)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.ErrorWithTrace(statusError(resp))
	}

	names := []string{}
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return names, nil
}

// Compare posts the two selections. A response carrying an error message is
// returned without a Go error, whatever its status; any other non-2xx status
// is an error.
func (c *Client) Compare(ctx context.Context, in CompareRequest) (*CompareResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compare", bytes.NewReader(body))
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	out := &CompareResponse{}
	decodeErr := json.Unmarshal(raw, out)
	if decodeErr == nil && out.Error != "" {
		return out, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.ErrorWithTrace(fmt.Errorf("stats service: status=%d, body=%s", resp.StatusCode, truncate(raw)))
	}
	if decodeErr != nil {
		return nil, utils.ErrorWithTrace(decodeErr)
	}
	if len(out.Stats) < 2 || len(out.Career) < 2 {
		return nil, utils.ErrorWithTrace(ErrIncomplete)
	}
	return out, nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("stats service: status=%d, body=%s", resp.StatusCode, truncate(raw))
}

func truncate(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
