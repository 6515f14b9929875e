package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ideaspark-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatPassesSchemaAsFormat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"{}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 5*time.Second)
	out, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "developer", Content: "rules"}, {Role: "user", Content: "hi"}},
		llm.WithJSONSchema("x", map[string]interface{}{"type": "object"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "object", got.Format["type"])
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing", time.Second).Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestResearchUnsupported(t *testing.T) {
	_, err := NewOllamaProvider("http://localhost:11434", "llama3", time.Second).Research(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrResearchUnsupported)
}
