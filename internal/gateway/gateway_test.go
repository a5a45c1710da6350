package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/unifind/internal/model"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}

func TestBearerHeader(t *testing.T) {
	var got []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`{"totalUsers": 3}`))
	}))

	_, err := c.Stats(context.Background())
	require.NoError(t, err)

	_, err = c.WithCredential(StaticCredential("tok-1")).Stats(context.Background())
	require.NoError(t, err)

	_, err = c.WithCredential(StaticCredential("")).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-1", ""}, got)
}

func TestServerErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Email already registered"}`, "Email already registered"},
		{"error string", `{"error":"Invalid token"}`, "Invalid token"},
		{"nested error", `{"error":{"code":"X","message":"Nope"}}`, "Nope"},
		{"message wins", `{"message":"first","error":"second"}`, "first"},
		{"not json", `<html>bad gateway</html>`, GenericMessage},
		{"empty body", ``, GenericMessage},
		{"blank message", `{"message":"  "}`, GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, tt.body)
			}))

			err := c.Signup(context.Background(), model.Signup{Email: "a@b.c"})
			require.Error(t, err)

			var gwErr *Error
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, KindServer, gwErr.Kind)
			assert.Equal(t, http.StatusBadRequest, gwErr.Status)
			assert.Equal(t, tt.want, gwErr.Message)
			assert.Equal(t, tt.want, Message(err))
			assert.True(t, IsServer(err))
		})
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := New(url)
		require.NoError(t, err)

		_, err = c.Stats(context.Background())
		require.Error(t, err)
		assert.True(t, IsTransport(err))
		assert.Equal(t, GenericMessage, Message(err))
	})

	t.Run("undecodable success body", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"totalUsers":`)
		}))
		_, err := c.Stats(context.Background())
		require.Error(t, err)
		assert.True(t, IsTransport(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Stats(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNoRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := c.BlockUser(context.Background(), "u1", "spam")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Session expired"}`)
	}))

	_, err := c.Verify(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsUnauthorized(errors.New("other")))
}

func TestTableEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tables/marketplace_items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "-created_at", r.URL.Query().Get("sort"))
		io.WriteString(w, `{"data":[{"id":"m1","title":"Desk","price":2500,"status":"Available","created_at":"2026-10-01T10:00:00Z"}]}`)
	})
	mux.HandleFunc("GET /tables/lost_found_items", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null}`)
	})
	mux.HandleFunc("POST /tables/marketplace_items", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID)
		assert.Equal(t, "Lamp", body["title"])
		body["id"] = "m2"
		json.NewEncoder(w).Encode(body)
	})
	c := newTestClient(t, mux)

	items, err := c.ListMarketplaceItems(context.Background(), ListOptions{Limit: 100})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Desk", items[0].Title)
	assert.Equal(t, model.StatusAvailable, items[0].Status)

	lf, err := c.ListLostFoundItems(context.Background(), ListOptions{Limit: 100})
	require.NoError(t, err)
	assert.NotNil(t, lf)
	assert.Empty(t, lf)

	created, err := c.CreateMarketplaceItem(context.Background(), model.MarketplaceItem{Title: "Lamp", Status: model.StatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, "m2", created.ID)
}

func TestEndpointRoutes(t *testing.T) {
	type call struct {
		method, path, body string
	}
	var got []call
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, call{r.Method, r.URL.Path, string(b)})
	}))
	ctx := context.Background()

	require.NoError(t, c.TakeReportAction(ctx, "r1", "warn"))
	require.NoError(t, c.DismissReport(ctx, "r1"))
	require.NoError(t, c.ResolveReport(ctx, "r1", "done"))
	require.NoError(t, c.BlockUser(ctx, "u1", "spam"))
	require.NoError(t, c.UnblockUser(ctx, "u1"))
	require.NoError(t, c.VerifyUser(ctx, "u1"))
	require.NoError(t, c.AdminDeleteItem(ctx, model.KindMarketplace, "m1"))
	require.NoError(t, c.AdminDeleteItem(ctx, model.KindLostFound, "l1"))
	require.NoError(t, c.DeleteItem(ctx, model.KindLostFound, "l1"))
	require.NoError(t, c.UpdateItemStatus(ctx, model.KindMarketplace, "m1", "Sold"))
	require.NoError(t, c.AddFavorite(ctx, "m1", model.KindMarketplace))
	require.NoError(t, c.RemoveFavorite(ctx, "f1"))
	require.NoError(t, c.ChangePassword(ctx, "old", "new"))

	want := []call{
		{http.MethodPost, "/api/admin/reports/r1/action", `{"action":"warn"}`},
		{http.MethodPatch, "/api/admin/reports/r1", `{"status":"Dismissed"}`},
		{http.MethodPost, "/api/admin/reports/r1/resolve", `{"adminNotes":"done"}`},
		{http.MethodPost, "/api/admin/users/u1/block", `{"reason":"spam"}`},
		{http.MethodPost, "/api/admin/users/u1/unblock", ``},
		{http.MethodPost, "/api/admin/users/u1/verify", ``},
		{http.MethodDelete, "/api/admin/marketplace-items/m1", ``},
		{http.MethodDelete, "/api/admin/lost-found-items/l1", ``},
		{http.MethodDelete, "/api/lost-found-items/l1", ``},
		{http.MethodPatch, "/api/marketplace-items/m1", `{"status":"Sold"}`},
		{http.MethodPost, "/api/favorites", `{"itemId":"m1","itemType":"marketplace"}`},
		{http.MethodDelete, "/api/favorites/f1", ``},
		{http.MethodPost, "/api/users/change-password", `{"currentPassword":"old","newPassword":"new"}`},
	}
	assert.Equal(t, want, got)
}

func TestLoginRequiresToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"user":{"id":"u1"}}`)
	}))
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestMetricsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	status := http.StatusOK
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, `{}`)
	}), WithMetrics(m))

	_, err := c.Stats(context.Background())
	require.NoError(t, err)
	status = http.StatusInternalServerError
	_, err = c.Stats(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/admin/stats", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/admin/stats", outcomeServer)))
}
