package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erazemk/unifind/internal/db"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/session"
	"github.com/erazemk/unifind/internal/store"
)

// fakeAPI is a minimal backend. Tokens map to users; reject forces a status
// for "METHOD /path".
type fakeAPI struct {
	mu       sync.Mutex
	hits     map[string]int
	market   []model.MarketplaceItem
	accounts map[string]account
	tokens   map[string]model.User
	reject   map[string]int
	garbled  bool
}

type account struct {
	password string
	token    string
	user     model.User
}

var (
	alice = model.User{ID: "u1", FullName: "Alice Novak", Email: "alice@uni.edu", StudentID: "S1"}
	admin = model.User{ID: "u9", FullName: "Ada Admin", Email: "admin@uni.edu", StudentID: "S9", IsAdmin: true}
)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		hits: map[string]int{},
		market: []model.MarketplaceItem{
			{ID: "1", Title: "Calculus Textbook", Description: "Barely used", Price: 1500, Category: "Books", Condition: "Good", SellerName: "Bob", Status: model.StatusAvailable},
			{ID: "2", Title: "Desk Lamp", Description: "LED", Price: 800, Category: "Furniture", Condition: "Fair", SellerName: "Eve", Status: model.StatusSold},
		},
		accounts: map[string]account{
			alice.Email: {password: "secret", token: "tok-alice", user: alice},
			admin.Email: {password: "secret", token: "tok-admin", user: admin},
		},
		tokens: map[string]model.User{"tok-alice": alice, "tok-admin": admin},
		reject: map[string]int{},
	}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	f.hits[key]++
	if status, ok := f.reject[key]; ok {
		writeJSON(w, status, map[string]string{"message": "Rejected"})
		return
	}

	user, authed := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]

	switch key {
	case "POST /api/auth/login":
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		acc, ok := f.accounts[body.Email]
		if !ok || acc.password != body.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": acc.token, "user": acc.user})
	case "GET /api/auth/verify":
		if f.garbled {
			_, _ = io.WriteString(w, `{"user":`)
			return
		}
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	case "POST /api/auth/logout", "POST /api/favorites", "PATCH /api/admin/reports/r1":
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case "GET /tables/marketplace_items":
		writeJSON(w, http.StatusOK, map[string]any{"data": f.market})
	case "POST /tables/marketplace_items":
		var item model.MarketplaceItem
		_ = json.NewDecoder(r.Body).Decode(&item)
		item.ID = "new"
		f.market = append([]model.MarketplaceItem{item}, f.market...)
		writeJSON(w, http.StatusCreated, item)
	case "GET /api/admin/stats":
		writeJSON(w, http.StatusOK, model.Stats{TotalUsers: 2, PendingReports: 1})
	case "GET /api/admin/reports":
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "r1", "reason": "Spam", "status": "Pending"}})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	t      *testing.T
	api    *fakeAPI
	server *Server
	site   *httptest.Server
	clock  *clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	api := newFakeAPI()
	backend := httptest.NewServer(api)
	t.Cleanup(backend.Close)

	conn := db.NewTestDB(t)
	gw, err := gateway.New(backend.URL)
	require.NoError(t, err)

	key, err := store.GetCredentialKey(ctx, conn)
	require.NoError(t, err)
	secret, err := store.GetCookieSecret(ctx, conn)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	storage := session.NewSQLiteStorage(conn, session.NewSealer(key))
	mgr := session.NewManager(storage, session.GatewayAuthenticator{Client: gw}, logger)

	clk := &clock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()
	s, err := NewServer(Config{
		DB:           conn,
		Gateway:      gw,
		Sessions:     mgr,
		CookieSecret: secret,
		Logger:       logger,
		Location:     time.UTC,
		Registry:     reg,
		Gatherer:     reg,
		Now:          clk.Now,
	})
	require.NoError(t, err)

	site := httptest.NewServer(s.Handler())
	t.Cleanup(site.Close)

	return &testEnv{t: t, api: api, server: s, site: site, clock: clk}
}

// browser keeps cookies and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (e *testEnv) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &browser{
		t:    e.t,
		base: e.site.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
}

func (b *browser) sessionCookie() *http.Cookie {
	u, _ := url.Parse(b.base)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.browser().get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestMetricsExposeRequests(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.get("/marketplace")

	resp, body := b.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `unifind_http_requests_total{pattern="GET /marketplace",status="200"} 1`)
}

func TestFirstVisitIssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	resp, _ := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := b.sessionCookie()
	require.NotNil(t, c)

	b.get("/lost-found")
	assert.Equal(t, c.Value, b.sessionCookie().Value, "valid cookie must be kept")
}

func TestMarketplaceFiltersReuseLoadedItems(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	resp, body := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Calculus Textbook")
	assert.Contains(t, body, "Desk Lamp")
	assert.Equal(t, 1, env.api.count("GET /tables/marketplace_items"))

	_, body = b.get("/marketplace?q=lamp")
	assert.Contains(t, body, "Desk Lamp")
	assert.NotContains(t, body, "Calculus Textbook")
	assert.Equal(t, 1, env.api.count("GET /tables/marketplace_items"))

	_, body = b.get("/marketplace?status=Available&category=Books")
	assert.Contains(t, body, "Calculus Textbook")
	assert.NotContains(t, body, "Desk Lamp")

	b.get("/marketplace")
	assert.Equal(t, 2, env.api.count("GET /tables/marketplace_items"), "plain load refreshes")
}

func TestMarketplaceBackendFailureShowsErrorState(t *testing.T) {
	env := newTestEnv(t)
	env.api.set(func(f *fakeAPI) { f.reject["GET /tables/marketplace_items"] = http.StatusInternalServerError })

	resp, body := env.browser().get("/marketplace")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "error-state")
	assert.Contains(t, body, "Rejected")
}

func TestMarketplaceDetail(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	resp, body := b.get("/marketplace/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Calculus Textbook")
	assert.NotContains(t, body, `action="/favorites"`, "signed-out visitors cannot save")

	resp, _ = b.get("/marketplace/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	resp, body := b.post("/login", url.Values{"email": {alice.Email}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, alice.Email, "email is kept")

	resp, body = b.post("/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Equal(t, 1, env.api.count("POST /api/auth/login"), "invalid form never reaches the backend")

	before := b.sessionCookie()
	resp, _ = b.post("/login", url.Values{"email": {alice.Email}, "password": {"secret"}, "next": {"/lost-found"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/lost-found", resp.Header.Get("Location"))
	assert.NotEqual(t, before.Value, b.sessionCookie().Value, "login rotates the session")

	_, body = b.get("/")
	assert.Contains(t, body, "Welcome back, Alice Novak!")
	assert.Contains(t, body, `href="/profile"`)

	_, body = b.get("/")
	assert.NotContains(t, body, "Welcome back", "notices are shown once")
	assert.Zero(t, env.api.count("GET /api/auth/verify"), "fresh login needs no verification")
}

func TestLoginRejectsForeignNext(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	resp, _ := b.post("/login", url.Values{"email": {alice.Email}, "password": {"secret"}, "next": {"//evil.example"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLogoutRevokesCookie(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)
	old := b.sessionCookie()

	resp, _ := b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, env.api.count("POST /api/auth/logout"))

	// Replaying the old cookie starts a fresh, signed-out session.
	replay := env.browser()
	u, _ := url.Parse(env.site.URL)
	replay.client.Jar.SetCookies(u, []*http.Cookie{old})
	resp, _ = replay.get("/profile")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.NotEqual(t, old.Value, replay.sessionCookie().Value)
}

func TestRequireUser(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	resp, _ := b.get("/profile")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := b.get("/login")
	assert.Contains(t, body, "Please log in to continue")
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)

	resp, _ := b.get("/admin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Zero(t, env.api.count("GET /api/admin/stats"))
}

func TestVerificationRejectionSignsOut(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)

	env.clock.Advance(30 * time.Second)
	_, body := b.get("/marketplace")
	assert.Zero(t, env.api.count("GET /api/auth/verify"), "verified within the interval")
	assert.Contains(t, body, "Alice Novak")

	env.api.set(func(f *fakeAPI) { delete(f.tokens, "tok-alice") })
	env.clock.Advance(DefaultVerifyInterval)

	resp, _ := b.get("/marketplace")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, env.api.count("GET /api/auth/verify"))

	resp, _ = b.get("/profile")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestVerificationTransportFailureKeepsSignIn(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)

	env.api.set(func(f *fakeAPI) { f.garbled = true })
	env.clock.Advance(DefaultVerifyInterval)

	resp, body := b.get("/marketplace")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Alice Novak", "renders signed out while the backend is unreachable")

	env.api.set(func(f *fakeAPI) { f.garbled = false })
	_, body = b.get("/marketplace")
	assert.Contains(t, body, "Alice Novak", "stored sign-in survives")
	assert.Equal(t, 2, env.api.count("GET /api/auth/verify"))
}

func TestUnauthorizedActionEndsSession(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)
	env.api.set(func(f *fakeAPI) { f.reject["POST /api/favorites"] = http.StatusUnauthorized })

	resp, _ := b.post("/favorites", url.Values{"item_id": {"1"}, "item_type": {"marketplace"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = b.get("/profile")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAddFavoriteFlashesSuccess(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)
	b.get("/")

	resp, _ := b.post("/favorites", url.Values{"item_id": {"1"}, "item_type": {"marketplace"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := b.get("/marketplace?q=x")
	assert.Contains(t, body, "Added to favorites")
	assert.Contains(t, body, "notice-success")
}

func TestPostMarketplaceItem(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.get("/")

	form := url.Values{
		"title":          {""},
		"description":    {"Graphing calculator"},
		"price":          {"2500"},
		"category":       {"Electronics"},
		"condition":      {"Good"},
		"seller_name":    {"Zoe"},
		"seller_contact": {"98000000"},
	}
	resp, body := b.post("/post/marketplace", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Title is required.")
	assert.Contains(t, body, "Graphing calculator", "entered values are kept")
	assert.Zero(t, env.api.count("POST /tables/marketplace_items"))

	form.Set("title", "TI-84")
	resp, _ = b.post("/post/marketplace", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, env.api.count("POST /tables/marketplace_items"))

	_, body = b.get("/marketplace?q=ti-84")
	assert.Contains(t, body, "Item posted successfully!")
	assert.Contains(t, body, "TI-84")
}

func TestPostFormDefaults(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(alice.Email)

	_, body := b.get("/post?type=lost-found")
	assert.Contains(t, body, `value="2026-03-10"`)
	assert.Contains(t, body, `value="Alice Novak"`)
}

func TestAdminDismissNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(admin.Email)

	resp, body := b.get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Spam")

	resp, _ = b.post("/admin/reports/r1/dismiss", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/confirm/"), loc)
	assert.Zero(t, env.api.count("PATCH /api/admin/reports/r1"))

	resp, body = b.get(loc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Are you sure you want to dismiss this report?")

	id := strings.TrimPrefix(strings.SplitN(loc, "?", 2)[0], "/confirm/")
	resp, _ = b.post("/confirm/"+id, url.Values{"decision": {"confirm"}, "next": {"/admin"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	assert.Equal(t, 1, env.api.count("PATCH /api/admin/reports/r1"))
	assert.Equal(t, 2, env.api.count("GET /api/admin/reports"), "reports are refetched")

	// A decided confirmation cannot be replayed.
	resp, _ = b.post("/confirm/"+id, url.Values{"decision": {"confirm"}, "next": {"/admin"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, env.api.count("PATCH /api/admin/reports/r1"))
	_, body = b.get("/admin")
	assert.Contains(t, body, "That request has expired.")
}

func TestAdminCancelConfirmation(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login(admin.Email)

	resp, _ := b.post("/admin/reports/r1/dismiss", nil)
	loc := resp.Header.Get("Location")
	id := strings.TrimPrefix(strings.SplitN(loc, "?", 2)[0], "/confirm/")

	resp, _ = b.post("/confirm/"+id, url.Values{"decision": {"cancel"}, "next": {"/admin"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Zero(t, env.api.count("PATCH /api/admin/reports/r1"))

	// Another session cannot see the confirmation.
	other := env.browser()
	other.login(admin.Email)
	resp, _ = other.get(loc)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestSweepIdleDropsState(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.get("/")
	require.Equal(t, 1, env.server.States.Len())

	assert.Zero(t, env.server.SweepIdle())
}
