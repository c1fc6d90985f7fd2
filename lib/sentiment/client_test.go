package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"brandsentinel-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestClassifyBatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sentiment")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/"+DefaultModel, r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req inferenceRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		require.Len(t, req.Inputs, 2)
		// the long input arrives truncated
		require.Len(t, req.Inputs[1], 512)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([][]inferenceLabel{
			{
				{Label: "POSITIVE", Score: 0.99987654},
				{Label: "NEGATIVE", Score: 0.00012346},
			},
			{
				{Label: "NEGATIVE", Score: 0.8},
				{Label: "POSITIVE", Score: 0.2},
			},
		})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		Endpoint: server.URL,
		Token:    "test-token",
	})

	results, err := client.ClassifyBatch(context.Background(), []string{
		"absolutely marvelous",
		strings.Repeat("terrible ", 100),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, LabelPositive, results[0].Label)
	require.Equal(t, 0.9999, results[0].Confidence)
	require.Equal(t, LabelNegative, results[1].Label)
	require.Equal(t, 0.8, results[1].Confidence)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	text := strings.Repeat("č", maxInputLength+40)
	got := truncate(text)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, maxInputLength, utf8.RuneCountInString(got))

	require.Equal(t, "già", truncate("già"))
}

func TestClassifyBatchEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sentiment")
	defer cleanup()

	client := NewClient(ClientOptions{Endpoint: "http://localhost:1"})
	results, err := client.ClassifyBatch(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, results)
}

func TestClassifyServerError(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sentiment")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{Endpoint: server.URL})
	_, err := client.Classify(context.Background(), "some text")
	require.ErrorContains(t, err, "status 503")
}
