package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackService_Notify(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewSlackService(srv.URL)
	err := svc.Notify(context.Background(), "Detected events:\n\n- GOLD 15-minute: golden cross")

	require.NoError(t, err)
	assert.Contains(t, gotBody["text"], "golden cross")
}

func TestSlackService_Notify_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewSlackService(srv.URL)
	err := svc.Notify(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSlackService_Notify_NotConfigured(t *testing.T) {
	svc := NewSlackService("")
	assert.Error(t, svc.Notify(context.Background(), "x"))
}
