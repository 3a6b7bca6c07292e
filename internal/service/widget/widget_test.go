package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"support_chat_client/pkg/errorx"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

var upgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fakeDisplay records every view call.
type fakeDisplay struct {
	mu       sync.Mutex
	messages []string // "sender|content"
	banner   string
	status   string
	disabled bool
}

func (d *fakeDisplay) AppendMessage(sender, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, sender+"|"+content)
}
func (d *fakeDisplay) ShowNotice(text string) {}
func (d *fakeDisplay) SetBanner(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.banner = text
}
func (d *fakeDisplay) ClearBanner() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.banner = ""
}
func (d *fakeDisplay) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}
func (d *fakeDisplay) DisableInput() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disabled = true
}

func (d *fakeDisplay) transcript() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.messages))
	copy(out, d.messages)
	return out
}

// visitorBackend simulates the session REST endpoint and the visitor
// WebSocket endpoint, recording how many sessions were created and which
// session ids the sockets were opened for.
type visitorBackend struct {
	apiURL string

	sessions  int32
	wsTargets chan string // session id from the ws path
	conns     chan *gorilla.Conn
	frames    chan []byte
}

func newVisitorBackend(t *testing.T) *visitorBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &visitorBackend{
		wsTargets: make(chan string, 4),
		conns:     make(chan *gorilla.Conn, 4),
		frames:    make(chan []byte, 16),
	}

	r := gin.New()
	r.POST("/api/sessions", func(c *gin.Context) {
		atomic.AddInt32(&b.sessions, 1)
		c.JSON(http.StatusOK, gin.H{
			"session_id": "sess-visit-1",
			"state":      "queued",
		})
	})
	r.GET("/ws/client/:id", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		b.wsTargets <- c.Param("id")
		b.conns <- conn
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			b.frames <- raw
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	b.apiURL = srv.URL
	return b
}

func (b *visitorBackend) accept(t *testing.T) *gorilla.Conn {
	t.Helper()
	select {
	case conn := <-b.conns:
		return conn
	case <-time.After(time.Second):
		t.Fatal("widget never opened a websocket")
		return nil
	}
}

func (b *visitorBackend) push(t *testing.T, conn *gorilla.Conn, event any) {
	t.Helper()
	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := conn.WriteMessage(gorilla.TextMessage, raw); err != nil {
		t.Fatalf("push event: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func startedWidget(t *testing.T, b *visitorBackend) (*Widget, *fakeDisplay, *gorilla.Conn) {
	t.Helper()
	display := &fakeDisplay{}
	w := New(Options{ApiUrl: b.apiURL}, display)
	if err := w.StartChat(context.Background(), "Ann", "ann@x.co", "123"); err != nil {
		t.Fatalf("start chat: %v", err)
	}
	conn := b.accept(t)
	return w, display, conn
}

// Starting a chat issues exactly one session POST and one WebSocket scoped to
// the returned session id; repeated starts are no-ops.
func TestStartChatOnce(t *testing.T) {
	b := newVisitorBackend(t)
	w, _, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	if got := <-b.wsTargets; got != "sess-visit-1" {
		t.Fatalf("ws opened for %q, want sess-visit-1", got)
	}
	if w.SessionId() != "sess-visit-1" {
		t.Fatalf("session id = %q", w.SessionId())
	}

	// Duplicate start: no new POST, no new socket.
	if err := w.StartChat(context.Background(), "Ann", "ann@x.co", "123"); err != nil {
		t.Fatalf("duplicate start: %v", err)
	}
	if n := atomic.LoadInt32(&b.sessions); n != 1 {
		t.Fatalf("%d session POSTs, want 1", n)
	}
	select {
	case <-b.conns:
		t.Fatal("second websocket opened")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStartChatValidationBlocksRequest(t *testing.T) {
	b := newVisitorBackend(t)
	w := New(Options{ApiUrl: b.apiURL}, &fakeDisplay{})
	defer w.Close()

	err := w.StartChat(context.Background(), "Ann", "not-an-email", "123")
	if errorx.GetCode(err) != errorx.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := atomic.LoadInt32(&b.sessions); n != 0 {
		t.Fatalf("%d session POSTs, want 0", n)
	}

	// A failed attempt is not "started": a corrected retry goes through.
	if err := w.StartChat(context.Background(), "Ann", "ann@x.co", "123"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	conn := b.accept(t)
	conn.Close()
}

func TestConnectedEventRendersGreeting(t *testing.T) {
	b := newVisitorBackend(t)
	w, display, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	b.push(t, conn, gin.H{"type": "connected", "message": "Welcome to Acme support"})
	waitFor(t, func() bool {
		for _, m := range display.transcript() {
			if m == "bot|Welcome to Acme support" {
				return true
			}
		}
		return false
	}, "greeting never rendered")
}

func TestHandoffLifecycle(t *testing.T) {
	b := newVisitorBackend(t)
	w, display, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	b.push(t, conn, gin.H{"type": "handoff_requested", "message": "Let me get a human"})
	waitFor(t, func() bool {
		display.mu.Lock()
		defer display.mu.Unlock()
		return display.status == "Waiting for agent..." && display.banner != ""
	}, "handoff state never shown")

	b.push(t, conn, gin.H{"type": "agent_connected", "message": "Agent Smith joined"})
	waitFor(t, func() bool {
		display.mu.Lock()
		defer display.mu.Unlock()
		return display.status == "Human Agent" && display.banner == ""
	}, "agent state never shown")
}

// After the server closes the session the widget is terminal: input disabled
// and no outbound frame is ever produced again.
func TestSessionClosedIsTerminal(t *testing.T) {
	b := newVisitorBackend(t)
	w, display, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	b.push(t, conn, gin.H{"type": "session_closed", "message": "This chat has been closed"})
	waitFor(t, func() bool {
		display.mu.Lock()
		defer display.mu.Unlock()
		return display.disabled && display.status == "Chat Closed"
	}, "closed state never shown")

	before := len(display.transcript())
	err := w.SendMessage("are you still there?")
	if !errors.Is(err, errorx.ErrSessionClosed) {
		t.Fatalf("expected session-closed error, got %v", err)
	}
	select {
	case raw := <-b.frames:
		t.Fatalf("outbound frame after close: %s", raw)
	case <-time.After(200 * time.Millisecond):
	}
	if got := len(display.transcript()); got != before {
		t.Fatal("message rendered after session close")
	}
}

func TestSendBeforeStartIsNoop(t *testing.T) {
	b := newVisitorBackend(t)
	w := New(Options{ApiUrl: b.apiURL}, &fakeDisplay{})
	defer w.Close()

	err := w.SendMessage("hello?")
	if !errors.Is(err, errorx.ErrWSClosed) {
		t.Fatalf("expected closed-connection error, got %v", err)
	}
	if n := atomic.LoadInt32(&b.sessions); n != 0 {
		t.Fatalf("%d session POSTs, want 0", n)
	}
}

// A visitor message renders locally once; the server echo carrying the same
// correlation id is suppressed while genuinely new messages still render.
func TestVisitorEchoSuppressed(t *testing.T) {
	b := newVisitorBackend(t)
	w, display, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	if err := w.SendMessage("I broke something"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := len(display.transcript()); got != 1 {
		t.Fatalf("transcript length %d, want 1", got)
	}

	var frame struct {
		Content   string `json:"content"`
		MessageId string `json:"message_id"`
	}
	select {
	case raw := <-b.frames:
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("bad frame %s: %v", raw, err)
		}
	case <-time.After(time.Second):
		t.Fatal("no outbound frame")
	}
	if frame.Content != "I broke something" || frame.MessageId == "" {
		t.Fatalf("unexpected frame: %+v", frame)
	}

	b.push(t, conn, gin.H{
		"type": "message", "content": "I broke something",
		"sender_type": "CLIENT", "message_id": frame.MessageId,
	})
	b.push(t, conn, gin.H{
		"type": "message", "content": "Let me check that for you",
		"sender_type": "AI",
	})

	waitFor(t, func() bool { return len(display.transcript()) == 2 },
		"bot reply never rendered")
	transcript := display.transcript()
	if got := transcript[1]; !strings.Contains(got, "bot|Let me check") {
		t.Fatalf("second entry = %q, want bot reply", got)
	}
}

func TestToggleDoesNotTouchConnection(t *testing.T) {
	b := newVisitorBackend(t)
	w, _, conn := startedWidget(t, b)
	defer w.Close()
	defer conn.Close()

	if open := w.Toggle(); !open {
		t.Fatal("first toggle should open the panel")
	}
	w.Minimize()

	// The socket stays usable across visibility changes.
	if err := w.SendMessage("still connected"); err != nil {
		t.Fatalf("send after toggle: %v", err)
	}
	select {
	case <-b.frames:
	case <-time.After(time.Second):
		t.Fatal("frame not delivered after toggle")
	}
}

func TestOptionsMerge(t *testing.T) {
	merged := DefaultOptions().Merge(Options{
		ApiUrl:      "https://chat.acme.example",
		CompanyName: "Acme",
	})
	if merged.ApiUrl != "https://chat.acme.example" {
		t.Fatalf("api url = %q", merged.ApiUrl)
	}
	if merged.CompanyName != "Acme" {
		t.Fatalf("company name = %q", merged.CompanyName)
	}
	// Untouched fields keep their defaults.
	if merged.Position != "bottom-right" || merged.PrimaryColor != "#6366f1" {
		t.Fatalf("defaults lost: %+v", merged)
	}

	w := New(Options{ApiUrl: "https://chat.acme.example"}, &fakeDisplay{})
	if got := w.Options().WsUrl; got != "wss://chat.acme.example" {
		t.Fatalf("derived ws url = %q", got)
	}
}
