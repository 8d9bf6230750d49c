package hal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"juliaview/internal/snapshot"

	"github.com/coder/websocket"
)

// StreamConfig controls the streaming runner: a headless loop whose
// presented frames are pushed to browsers over a websocket.
type StreamConfig struct {
	HeadlessConfig
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string
	// Log receives connection events. Nil discards them.
	Log *slog.Logger
}

// RunStream serves an HTML viewer at / and a frame feed at /ws while running
// the app headless. Each presented frame is PNG-encoded once and sent to all
// connected clients; a client that is still busy with an older frame skips
// the new one.
func RunStream(ctx context.Context, newApp func(HAL) (func() error, error), cfg StreamConfig) error {
	cfg.defaults()
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	h := newHost(cfg.HostConfig)
	h.kbd = newHeldKeyboard(cfg.Hold)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := newFrameHub(cfg.Log)
	srv := &http.Server{
		Handler:           hub.handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()
	cfg.Log.Info("stream listening", "addr", ln.Addr().String())

	pub := &framePublisher{fb: h.fb, hub: hub, log: cfg.Log}
	err = runTicks(ctx, h, step, cfg.HeadlessConfig, pub.publish)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	if serr := <-srvErr; serr != nil && err == nil {
		err = fmt.Errorf("http serve: %w", serr)
	}
	return err
}

// framePublisher encodes newly presented frames and hands them to the hub.
type framePublisher struct {
	fb   *hostFramebuffer
	hub  *frameHub
	log  *slog.Logger
	last uint64
	buf  []uint32
}

func (p *framePublisher) publish() {
	if p.fb.presented() == p.last || p.hub.count() == 0 {
		return
	}
	if p.buf == nil {
		p.buf = make([]uint32, len(p.fb.front))
	}
	p.last = p.fb.snapshot(p.buf)

	var out bytes.Buffer
	img := snapshot.ToRGBA(p.buf, p.fb.width, p.fb.height)
	if err := snapshot.Encode(&out, img, snapshot.FormatPNG); err != nil {
		p.log.Warn("encode frame", "err", err)
		return
	}
	p.hub.broadcast(out.Bytes())
}

type streamClient struct {
	frames chan []byte
}

// frameHub tracks connected websocket clients.
type frameHub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

func newFrameHub(log *slog.Logger) *frameHub {
	return &frameHub{log: log, clients: make(map[*streamClient]struct{})}
}

func (hb *frameHub) count() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return len(hb.clients)
}

func (hb *frameHub) add() *streamClient {
	c := &streamClient{frames: make(chan []byte, 1)}
	hb.mu.Lock()
	hb.clients[c] = struct{}{}
	hb.mu.Unlock()
	return c
}

func (hb *frameHub) remove(c *streamClient) {
	hb.mu.Lock()
	delete(hb.clients, c)
	hb.mu.Unlock()
}

// broadcast queues frame for every client. Clients with a frame still
// queued keep the older one.
func (hb *frameHub) broadcast(frame []byte) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	for c := range hb.clients {
		select {
		case c.frames <- frame:
		default:
		}
	}
}

func (hb *frameHub) handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hb.serveWS(ctx, w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(streamPage))
	})
	return mux
}

func (hb *frameHub) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		hb.log.Warn("websocket accept", "err", err)
		return
	}
	defer conn.CloseNow()

	c := hb.add()
	defer hb.remove(c)
	hb.log.Info("stream client connected", "remote", r.RemoteAddr)
	defer hb.log.Info("stream client disconnected", "remote", r.RemoteAddr)

	// The viewer never sends; CloseRead handles control frames and cancels
	// readCtx when the peer goes away.
	readCtx := conn.CloseRead(ctx)
	for {
		select {
		case <-readCtx.Done():
			return
		case frame := <-c.frames:
			wctx, cancel := context.WithTimeout(readCtx, 5*time.Second)
			err := conn.Write(wctx, websocket.MessageBinary, frame)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

const streamPage = `<!doctype html>
<html>
<head><title>Julia</title></head>
<body style="margin:0;background:#000">
<img id="frame" style="image-rendering:pixelated">
<script>
const img = document.getElementById("frame");
const proto = location.protocol === "https:" ? "wss" : "ws";
const ws = new WebSocket(proto + "://" + location.host + "/ws");
ws.binaryType = "blob";
ws.onmessage = (ev) => {
	const url = URL.createObjectURL(ev.data);
	img.onload = () => URL.revokeObjectURL(url);
	img.src = url;
};
</script>
</body>
</html>
`
