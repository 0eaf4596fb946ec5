package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// feedHandler is a minimal WebSocketHandler standing in for a venue feed.
type feedHandler struct {
	url            string
	onConnectCalls int32
	onMessageCalls int32
	frames         [][]byte
}

func (h *feedHandler) GetURL() string { return h.url }
func (h *feedHandler) ID() string     { return "TEST-FEED" }
func (h *feedHandler) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	atomic.AddInt32(&h.onConnectCalls, 1)
	return nil
}
func (h *feedHandler) OnMessage(ctx context.Context, msg []byte) {
	atomic.AddInt32(&h.onMessageCalls, 1)
	h.frames = append(h.frames, msg)
}
func (h *feedHandler) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return nil
}

// newFeedServer runs serve against each accepted WebSocket connection.
func newFeedServer(t *testing.T, serve func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		serve(conn)
	}))
}

func wsURL(httpURL string) string {
	return strings.Replace(httpURL, "http://", "ws://", 1)
}

func TestBaseWSWorker_ConnectAndReceive(t *testing.T) {
	server := newFeedServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"info"}`))
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	handler := &feedHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)
	worker.ReadTimeout = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	worker.Start(ctx)
	time.Sleep(200 * time.Millisecond)
	worker.Stop()

	if atomic.LoadInt32(&handler.onConnectCalls) == 0 {
		t.Error("OnConnect never ran")
	}
	if atomic.LoadInt32(&handler.onMessageCalls) == 0 {
		t.Error("the pushed frame never reached OnMessage")
	}
}

func TestBaseWSWorker_StopDoesNotHang(t *testing.T) {
	serverClosed := make(chan struct{})
	server := newFeedServer(t, func(conn *websocket.Conn) {
		<-serverClosed // hold the connection open
	})
	defer server.Close()
	defer close(serverClosed)

	handler := &feedHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)

	worker.Start(context.Background())
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Stop blocked on an open connection")
	}
}

func TestBaseWSWorker_WriteReachesServer(t *testing.T) {
	received := make(chan []byte, 1)
	server := newFeedServer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			received <- msg
		}
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	handler := &feedHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)

	worker.Start(context.Background())
	time.Sleep(100 * time.Millisecond)

	sub := []byte(`{"event":"subscribe","channel":"trades"}`)
	if err := worker.Write(websocket.TextMessage, sub); err != nil {
		t.Errorf("Write failed: %v", err)
	}

	select {
	case msg := <-received:
		if string(msg) != string(sub) {
			t.Errorf("expected %s, got %s", sub, msg)
		}
	case <-time.After(1 * time.Second):
		t.Error("subscription never reached the server")
	}

	worker.Stop()
}

func TestBaseWSWorker_WriteWithoutConnection(t *testing.T) {
	worker := NewBaseWSWorker(&feedHandler{url: "ws://127.0.0.1:1/unreachable"})

	if err := worker.Write(websocket.TextMessage, []byte("x")); err == nil {
		t.Error("expected an error writing before any connection exists")
	}
}
