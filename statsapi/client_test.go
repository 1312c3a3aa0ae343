package statsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hoopcompare/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const comparePayload = `{
  "stats": [
    {"PLAYER_NAME": "Tim Duncan", "SEASON_ID": "2002-03", "GP": 81, "PTS": 1884, "FG_PCT": 0.513},
    {"PLAYER_NAME": "Kevin Garnett", "SEASON_ID": "2003-04", "GP": 82, "PTS": 1987, "FG_PCT": 0.499}
  ],
  "career": [
    {"PLAYER_NAME": "Tim Duncan", "GP": 1392, "PTS": 19.0, "FG_PCT": 0.506},
    {"PLAYER_NAME": "Kevin Garnett", "GP": 1462, "PTS": 17.8, "FG_PCT": 0.497}
  ]
}`

func TestPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/players", r.URL.Path)
		w.Write([]byte(`["Tim Duncan","Kevin Garnett"]`))
	}))
	defer srv.Close()

	names, err := New(srv.URL+"/", time.Second).Players(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tim Duncan", "Kevin Garnett"}, names)
}

func TestPlayersBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Players(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestCompareSuccess(t *testing.T) {
	var got CompareRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/compare", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(comparePayload))
	}))
	defer srv.Close()

	req := CompareRequest{Player1: "Tim Duncan", Player2: "Kevin Garnett", Season1: "02-03", Season2: "03-04"}
	resp, err := New(srv.URL, time.Second).Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	assert.Empty(t, resp.Error)
	require.Len(t, resp.Stats, 2)
	require.Len(t, resp.Career, 2)
	assert.Equal(t, "Kevin Garnett", resp.Stats[1].PlayerName)
	assert.Equal(t, 1884.0, resp.Stats[0].Get(stats.PTS))
	assert.Equal(t, 0.497, resp.Career[1].Get(stats.FGPct))
}

func TestCompareStructuredError(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"Tim Duncan did not play in the 24-25 season."}`))
		}))

		resp, err := New(srv.URL, time.Second).Compare(context.Background(), CompareRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Tim Duncan did not play in the 24-25 season.", resp.Error)
		srv.Close()
	}
}

func TestCompareTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx without error body", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}},
		{"incomplete", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"stats":[{"PLAYER_NAME":"A"}],"career":[]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			_, err := New(srv.URL, time.Second).Compare(context.Background(), CompareRequest{})
			assert.Error(t, err)
		})
	}
}

func TestCompareConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Compare(context.Background(), CompareRequest{})
	assert.Error(t, err)
}

func TestCompareIncompleteIsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Compare(context.Background(), CompareRequest{})
	assert.ErrorIs(t, err, ErrIncomplete)
}
