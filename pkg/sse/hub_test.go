package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return ""
	}
}

func TestHubBroadcastsToTopicSubscribers(t *testing.T) {
	hub := startHub(t)
	ctx := context.Background()

	a := make(chan []byte, 1)
	b := make(chan []byte, 1)
	other := make(chan []byte, 1)
	require.True(t, hub.Subscribe(ctx, a, "prompts"))
	require.True(t, hub.Subscribe(ctx, b, "prompts"))
	require.True(t, hub.Subscribe(ctx, other, "elsewhere"))
	assert.Equal(t, 2, hub.Subscribers("prompts"))

	assert.True(t, hub.PublishTopic("prompts", []byte("changed")))
	assert.Equal(t, "changed", receive(t, a))
	assert.Equal(t, "changed", receive(t, b))

	select {
	case msg := <-other:
		t.Fatalf("unexpected message on other topic: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := startHub(t)
	ctx := context.Background()

	ch := make(chan []byte, 1)
	require.True(t, hub.Subscribe(ctx, ch, "prompts"))
	require.True(t, hub.Unsubscribe(ctx, ch, "prompts"))
	assert.Zero(t, hub.Subscribers("prompts"))

	hub.PublishTopic("prompts", []byte("changed"))
	select {
	case msg := <-ch:
		t.Fatalf("unsubscribed channel received %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	hub := startHub(t)
	ctx := context.Background()

	slow := make(chan []byte) // unbuffered and never read
	fast := make(chan []byte, 4)
	require.True(t, hub.Subscribe(ctx, slow, "prompts"))
	require.True(t, hub.Subscribe(ctx, fast, "prompts"))

	hub.PublishTopic("prompts", []byte("one"))
	hub.PublishTopic("prompts", []byte("two"))
	assert.Equal(t, "one", receive(t, fast))
	assert.Equal(t, "two", receive(t, fast))
}

func TestPublishNeverBlocksWithoutRun(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < publishBuffer+10; i++ {
			hub.PublishTopic("prompts", []byte("x"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PublishTopic blocked")
	}
	assert.False(t, hub.PublishTopic("prompts", []byte("overflow")))
}

func TestSubscribeHonoursContext(t *testing.T) {
	hub := NewHub() // not running
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.False(t, hub.Subscribe(ctx, make(chan []byte), "prompts"))
}

func TestHandlerStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)

	router := gin.New()
	router.GET("/events", Handler(hub, "prompts"))
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	hub.PublishTopic("prompts", []byte(`{"type":"prompts_changed"}`))

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}
	assert.Equal(t, "data: {\"type\":\"prompts_changed\"}\n", line)
}

func TestHandlerWithoutHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events", Handler(nil, "prompts"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
