package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/db"
	"github.com/ziadkadry99/guilddash/internal/notifications"
)

// fakeBot serves the bot backend API.
type fakeBot struct {
	guildsStatus int
	guildsBody   string
	toggleBody   string
	toggles      atomic.Int32
}

func (b *fakeBot) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/guilds", func(w http.ResponseWriter, r *http.Request) {
		if b.guildsStatus != 0 {
			w.WriteHeader(b.guildsStatus)
			return
		}
		w.Write([]byte(b.guildsBody))
	})
	mux.HandleFunc("GET /api/stats/{guild}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"member_count":42,"channel_count":5,"role_count":3,"text_channels":4}`))
	})
	mux.HandleFunc("GET /api/data/{guild}/{category}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("category") {
		case "levels":
			w.Write([]byte(`{"exists":true,"data":{"u1":{"xp":100,"level":2,"messages":5},"u2":{"xp":50,"level":1,"messages":3}}}`))
		case "welcome":
			w.Write([]byte(`{"exists":true,"data":{"welcome":{"enabled":true,"channel":"lobby","message":"Hi"},"leave":{"enabled":false}}}`))
		default:
			w.Write([]byte(`{"exists":false}`))
		}
	})
	mux.HandleFunc("POST /api/welcome/{guild}/toggle", func(w http.ResponseWriter, r *http.Request) {
		b.toggles.Add(1)
		w.Write([]byte(b.toggleBody))
	})
	return mux
}

type testEnv struct {
	bot    *fakeBot
	router chi.Router
	store  *notifications.Store
}

func setupTest(t *testing.T, bot *fakeBot) *testEnv {
	t.Helper()

	backend := httptest.NewServer(bot.handler())
	t.Cleanup(backend.Close)

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := notifications.NewStore(database)
	manager := NewManager(t.Context(), ManagerOptions{
		Backend:    api.New(backend.URL),
		Dispatcher: notifications.NewDispatcher(store),
		Interval:   time.Hour,
	})
	t.Cleanup(manager.Close)

	r := chi.NewRouter()
	New(api.New(backend.URL), manager).RegisterRoutes(r)
	return &testEnv{bot: bot, router: r, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// waitFragments polls the fragments endpoint until id has content.
func (e *testEnv) waitFragments(t *testing.T, guildID, id string) map[string]string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		w := e.do(t, http.MethodGet, "/dashboard/"+guildID+"/fragments", nil)
		var frags map[string]string
		if err := json.NewDecoder(w.Body).Decode(&frags); err != nil {
			t.Fatalf("decoding fragments: %v", err)
		}
		if frags[id] != "" {
			return frags
		}
		if time.Now().After(deadline) {
			t.Fatalf("container %s never rendered: %v", id, frags)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGuildsPage(t *testing.T) {
	env := setupTest(t, &fakeBot{guildsBody: `{"guilds":[{"id":"1","name":"Alpha","icon":"","member_count":1200}]}`})

	w := env.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{`href="/dashboard/1"`, "Alpha", "1,200 members", `id="loading" class="panel" hidden`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestGuildsPageHTTPFailure(t *testing.T) {
	env := setupTest(t, &fakeBot{guildsStatus: http.StatusInternalServerError})

	body := env.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "Failed to load servers: HTTP 500") {
		t.Errorf("expected error reason in page: %s", body)
	}
	if !strings.Contains(body, `id="loading" class="panel" hidden`) {
		t.Error("loading indicator must be hidden after failure")
	}
	if strings.Contains(body, `id="error" class="panel panel-error" hidden`) {
		t.Error("error panel must be visible")
	}
}

func TestGuildsPageEmpty(t *testing.T) {
	env := setupTest(t, &fakeBot{guildsBody: `{"guilds":[]}`})

	body := env.do(t, http.MethodGet, "/", nil).Body.String()
	if strings.Contains(body, `id="no-guilds" class="panel" hidden`) {
		t.Error("no-guilds panel must be visible for an empty list")
	}
}

func TestDashboardRendersAfterFirstPass(t *testing.T) {
	env := setupTest(t, &fakeBot{})

	frags := env.waitFragments(t, "g1", "levels-data")
	if !strings.Contains(frags["levels-data"], "150") {
		t.Errorf("levels-data = %q", frags["levels-data"])
	}
	if _, ok := frags["toggle-welcome"]; ok {
		t.Error("nested toggle containers must not be listed as page fragments")
	}
	env.waitFragments(t, "g1", "member-count")
	env.waitFragments(t, "g1", "welcome-data")

	w := env.do(t, http.MethodGet, "/dashboard/g1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`data-guild="g1"`, `id="levels-data"`, "Total XP", `id="toggle-welcome"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in dashboard page", want)
		}
	}
}

func TestRefreshEndpoint(t *testing.T) {
	env := setupTest(t, &fakeBot{})

	w := env.do(t, http.MethodPost, "/dashboard/g1/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		GuildID  string            `json:"guild_id"`
		Outcomes map[string]string `json:"outcomes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.GuildID != "g1" || len(resp.Outcomes) != 7 {
		t.Fatalf("unexpected response %+v", resp)
	}
	for key, o := range resp.Outcomes {
		if o != "rendered" && o != "coalesced" {
			t.Errorf("%s: outcome %q", key, o)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := setupTest(t, &fakeBot{})
	env.waitFragments(t, "g1", "levels-data")

	w := env.do(t, http.MethodGet, "/dashboard/g1/status", nil)
	var status statusResponse
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if status.Interval != "1h0m0s" || status.Counters.Rendered == 0 {
		t.Errorf("status = %+v", status)
	}
}

func TestToggleEndpoint(t *testing.T) {
	env := setupTest(t, &fakeBot{toggleBody: `{"success":true,"message":"ok"}`})

	w := env.do(t, http.MethodPost, "/dashboard/g1/toggle", []byte(`{"type":"leave","enabled":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var tr map[string]any
	if err := json.NewDecoder(w.Body).Decode(&tr); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if tr["phase"] != "confirmed" || tr["message"] != "Leave messages enabled" {
		t.Errorf("transition = %v", tr)
	}

	history, err := env.store.List(t.Context(), notifications.ListFilter{GuildID: "g1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(history) != 1 || history[0].Level != notifications.LevelSuccess {
		t.Errorf("notification history = %+v", history)
	}
}

func TestToggleEndpointRollback(t *testing.T) {
	env := setupTest(t, &fakeBot{toggleBody: `{"success":false,"error":"Guild not found"}`})

	w := env.do(t, http.MethodPost, "/dashboard/g1/toggle", []byte(`{"type":"welcome","enabled":false}`))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var tr map[string]any
	json.NewDecoder(w.Body).Decode(&tr)
	if tr["phase"] != "rolled_back" || tr["message"] != "Failed to update welcome messages: Guild not found" {
		t.Errorf("transition = %v", tr)
	}
}

func TestToggleEndpointValidation(t *testing.T) {
	env := setupTest(t, &fakeBot{})

	if w := env.do(t, http.MethodPost, "/dashboard/g1/toggle", []byte(`not json`)); w.Code != http.StatusBadRequest {
		t.Errorf("invalid body: expected 400, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/dashboard/g1/toggle", []byte(`{"type":"goodbye","enabled":true}`)); w.Code != http.StatusBadRequest {
		t.Errorf("unknown feature: expected 400, got %d", w.Code)
	}
	if n := env.bot.toggles.Load(); n != 0 {
		t.Errorf("backend called %d times for invalid requests", n)
	}
}

func dialDashboard(t *testing.T, env *testEnv, guildID string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/dashboard/" + guildID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	// The error reply proves the client is registered with the hub.
	if err := conn.WriteJSON(clientMessage{Type: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, func(m map[string]string) bool { return m["type"] == msgError })
	return conn
}

// readUntil reads messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(map[string]string) bool) map[string]string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg map[string]string
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestWebSocketPushesFragments(t *testing.T) {
	env := setupTest(t, &fakeBot{})
	conn := dialDashboard(t, env, "g1")

	if err := conn.WriteJSON(clientMessage{Type: "refresh"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readUntil(t, conn, func(m map[string]string) bool {
		return m["type"] == msgFragment && m["container"] == "levels-data"
	})
	if !strings.Contains(msg["html"], "150") {
		t.Errorf("levels fragment = %q", msg["html"])
	}
}

func TestWebSocketPushesToggleAndNotification(t *testing.T) {
	env := setupTest(t, &fakeBot{toggleBody: `{"success":true}`})
	conn := dialDashboard(t, env, "g1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.do(t, http.MethodPost, "/dashboard/g1/toggle", []byte(`{"type":"welcome","enabled":false}`))
	}()
	defer func() { <-done }()

	readUntil(t, conn, func(m map[string]string) bool {
		return m["type"] == msgFragment && m["container"] == "toggle-welcome" && strings.Contains(m["html"], "switch-pending")
	})
	msg := readUntil(t, conn, func(m map[string]string) bool { return m["type"] == msgNotification })
	if msg["level"] != "success" || msg["message"] != "Welcome messages disabled" {
		t.Errorf("notification = %v", msg)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	env := setupTest(t, &fakeBot{})
	conn := dialDashboard(t, env, "g1")

	if err := conn.WriteJSON(clientMessage{Type: "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readUntil(t, conn, func(m map[string]string) bool { return m["type"] == msgError })
	if !strings.Contains(msg["message"], "unknown message type") {
		t.Errorf("expected unknown type error, got %q", msg["message"])
	}
}

func TestManagerCloseStopsSessions(t *testing.T) {
	m := NewManager(t.Context(), ManagerOptions{Backend: api.New("http://127.0.0.1:1"), Interval: time.Hour})

	if s := m.Session("a"); s == nil || m.Session("a") != s {
		t.Fatal("expected one session per guild")
	}
	m.Session("b")
	if got := strings.Join(m.Guilds(), ","); got != "a,b" {
		t.Errorf("Guilds = %q", got)
	}

	m.Close()
	if m.Session("a") != nil {
		t.Error("Session after Close must return nil")
	}
	m.Close()
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	c := &client{id: "slow", send: make(chan []byte, sendBuffer)}
	h.clients[c] = struct{}{}

	for i := 0; i <= sendBuffer; i++ {
		h.Broadcast(errorMessage{Type: msgError, Message: "x"})
	}

	if h.Len() != 0 {
		t.Errorf("expected slow client to be dropped, %d remain", h.Len())
	}
	n := 0
	for range c.send {
		n++
	}
	if n != sendBuffer {
		t.Errorf("expected %d queued messages before drop, got %d", sendBuffer, n)
	}
}

// countingBackend counts every request the bot API receives.
func countingBackend(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var n atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.Add(1)
		if strings.HasPrefix(r.URL.Path, "/api/stats/") {
			w.Write([]byte(`{"member_count":1}`))
			return
		}
		w.Write([]byte(`{"exists":false}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &n
}

func waitGuilds(t *testing.T, m *Manager, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for strings.Join(m.Guilds(), ",") != want {
		if time.Now().After(deadline) {
			t.Fatalf("Guilds = %q, want %q", strings.Join(m.Guilds(), ","), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIdleSessionIsStopped(t *testing.T) {
	backend, fetches := countingBackend(t)
	m := NewManager(t.Context(), ManagerOptions{
		Backend:     api.New(backend.URL),
		Interval:    10 * time.Millisecond,
		IdleTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(m.Close)

	r := chi.NewRouter()
	New(api.New(backend.URL), m).RegisterRoutes(r)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/bogus-"+strconv.Itoa(i)+"/status", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if n := len(m.Guilds()); n != 5 {
		t.Fatalf("expected 5 sessions, got %d", n)
	}

	waitGuilds(t, m, "")

	// Let requests that were already on the wire land.
	time.Sleep(30 * time.Millisecond)
	before := fetches.Load()
	time.Sleep(150 * time.Millisecond)
	if after := fetches.Load(); after != before {
		t.Errorf("backend fetched %d more times after sessions were stopped", after-before)
	}
}

func TestIdleSessionRestartsOnNextRequest(t *testing.T) {
	backend, _ := countingBackend(t)
	m := NewManager(t.Context(), ManagerOptions{
		Backend:     api.New(backend.URL),
		Interval:    time.Hour,
		IdleTimeout: 40 * time.Millisecond,
	})
	t.Cleanup(m.Close)

	first := m.Session("g1")
	waitGuilds(t, m, "")

	second := m.Session("g1")
	if second == nil || second == first {
		t.Fatal("expected a fresh session after the idle one was stopped")
	}
	if got := strings.Join(m.Guilds(), ","); got != "g1" {
		t.Errorf("Guilds = %q, want g1", got)
	}
}

func TestSessionWithViewerIsKept(t *testing.T) {
	backend, _ := countingBackend(t)
	m := NewManager(t.Context(), ManagerOptions{
		Backend:     api.New(backend.URL),
		Interval:    time.Hour,
		IdleTimeout: 40 * time.Millisecond,
	})
	t.Cleanup(m.Close)

	r := chi.NewRouter()
	New(api.New(backend.URL), m).RegisterRoutes(r)
	env := &testEnv{router: r}
	conn := dialDashboard(t, env, "g1")
	s := m.Session("g1")

	time.Sleep(200 * time.Millisecond)
	if m.Session("g1") != s {
		t.Fatal("session with a connected viewer must not be stopped")
	}

	conn.Close()
	waitGuilds(t, m, "")
}
