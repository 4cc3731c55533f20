package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-1", r.Header.Get(APIKeyHeader))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Entries, 2)
		assert.Equal(t, "2025-01-01", req.Entries[0].Date)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "a", "rating": 82, "mood": "positive", "description": "Happy", "emoji": "😊", "rationale": "r", "score": 9},
				{"id": "b", "rating": 30, "mood": "negative", "description": "Low", "emoji": "😞", "rationale": "r", "score": -5},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key-1", time.Second)
	res, err := c.Classify(context.Background(), []Input{
		{ID: "a", Text: "good", Date: "2025-01-01"},
		{ID: "b", Text: "bad", Date: "2025-01-02"},
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "b", res[1].ID)
	assert.Equal(t, models.MoodNegative, res[1].Analysis().Mood)
}

func TestClassify_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Rate limit exceeded. Please try again later."}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "k", time.Second).Classify(context.Background(), []Input{{ID: "a", Text: "x"}})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.True(t, IsRateLimited(err))
}

func TestClassify_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Empty AI response."}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "k", time.Second).Classify(context.Background(), []Input{{ID: "a", Text: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Empty AI response.")
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestClassify_ResultCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "k", time.Second).Classify(context.Background(), []Input{{ID: "a", Text: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 results, got 0")
}

func TestClassify_Preconditions(t *testing.T) {
	_, err := NewHTTPClient("http://unused", "", time.Second).Classify(context.Background(), []Input{{ID: "a"}})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	many := make([]Input, common.ClassifierMaxBatch+1)
	_, err = NewHTTPClient("http://unused", "k", time.Second).Classify(context.Background(), many)
	assert.ErrorIs(t, err, common.ErrBatchTooLarge)
}

func TestClassify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "k", 50*time.Millisecond).Classify(context.Background(), []Input{{ID: "a", Text: "x"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResultAnalysis_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		in   Result
		want models.MoodAnalysis
	}{
		{
			name: "zero values take defaults",
			in:   Result{},
			want: models.MoodAnalysis{Rating: 50, Mood: models.MoodNeutral, Description: "neutral", Emoji: "😐", Rationale: "No analysis available"},
		},
		{
			name: "clamps out of range",
			in:   Result{Rating: 140.2, Score: -40, Mood: "POSITIVE", Description: "d", Emoji: "e", Rationale: "r"},
			want: models.MoodAnalysis{Rating: 100, Mood: models.MoodPositive, Description: "d", Emoji: "e", Score: -15, Rationale: "r"},
		},
		{
			name: "rounds rating and keeps fractional score",
			in:   Result{Rating: 0.4, Score: 3.25, Mood: "sad"},
			want: models.MoodAnalysis{Rating: 1, Mood: models.MoodNeutral, Description: "neutral", Emoji: "😐", Score: 3.25, Rationale: "No analysis available"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, &tt.want, tt.in.Analysis())
		})
	}
}
