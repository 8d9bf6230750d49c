package hal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestStreamPage(t *testing.T) {
	hub := newFrameHub(slog.New(slog.DiscardHandler))
	srv := httptest.NewServer(hub.handler(context.Background()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws") {
		t.Fatalf("status=%d body=%q", resp.StatusCode, body)
	}

	resp2, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp2.StatusCode)
	}
}

func TestStreamBroadcast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := newFrameHub(slog.New(slog.DiscardHandler))
	srv := httptest.NewServer(hub.handler(ctx))
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.count() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.broadcast([]byte("frame-1"))
	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if typ != websocket.MessageBinary || string(data) != "frame-1" {
		t.Fatalf("got (%v, %q)", typ, data)
	}

	conn.Close(websocket.StatusNormalClosure, "")
	for hub.count() != 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never unregistered")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestFrameHubDropsWhenBusy(t *testing.T) {
	hub := newFrameHub(slog.New(slog.DiscardHandler))
	c := hub.add()
	hub.broadcast([]byte("a"))
	hub.broadcast([]byte("b"))
	if got := string(<-c.frames); got != "a" {
		t.Fatalf("queued %q, want a", got)
	}
	select {
	case f := <-c.frames:
		t.Fatalf("unexpected second frame %q", f)
	default:
	}
	hub.remove(c)
	if hub.count() != 0 {
		t.Fatal("client not removed")
	}
}

func TestFramePublisherSkipsUnchanged(t *testing.T) {
	hub := newFrameHub(slog.New(slog.DiscardHandler))
	c := hub.add()
	fb := newHostFramebuffer(2, 2)
	p := &framePublisher{fb: fb, hub: hub, log: slog.New(slog.DiscardHandler)}

	p.publish()
	select {
	case <-c.frames:
		t.Fatal("published before any Present")
	default:
	}

	_ = fb.Present()
	p.publish()
	frame := <-c.frames
	if !strings.HasPrefix(string(frame), "\x89PNG") {
		t.Fatalf("frame is not a PNG: %q", frame[:8])
	}
	p.publish()
	select {
	case <-c.frames:
		t.Fatal("republished an unchanged frame")
	default:
	}
}
