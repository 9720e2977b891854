package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wpendl99/jwt-pizza-service/config"
)

func TestMiddlewareCountsByMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &Metrics{}
	r := gin.New()
	r.Use(m.Middleware())
	handler := func(c *gin.Context) { c.Status(200) }
	r.GET("/x", handler)
	r.POST("/x", handler)
	r.PUT("/x", handler)
	r.DELETE("/x", handler)

	for _, method := range []string{"GET", "GET", "POST", "PUT", "DELETE"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/x", nil)
		r.ServeHTTP(w, req)
	}

	if got := m.getRequests.Load(); got != 2 {
		t.Errorf("get = %d, want 2", got)
	}
	if got := m.postRequests.Load(); got != 1 {
		t.Errorf("post = %d, want 1", got)
	}
	if got := m.putRequests.Load(); got != 1 {
		t.Errorf("put = %d, want 1", got)
	}
	if got := m.deleteRequests.Load(); got != 1 {
		t.Errorf("delete = %d, want 1", got)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	m := &Metrics{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.UserLoggedIn()
			m.AuthSucceeded()
			m.PizzasOrdered(2)
			m.AddRevenue(decimal.NewFromFloat(0.25))
		}()
	}
	wg.Wait()

	if got := m.activeUsers.Load(); got != 50 {
		t.Errorf("activeUsers = %d, want 50", got)
	}
	if got := m.pizzasOrdered.Load(); got != 100 {
		t.Errorf("pizzasOrdered = %d, want 100", got)
	}
	if got := m.revenue(); got < 12.49 || got > 12.51 {
		t.Errorf("revenue = %f, want 12.5", got)
	}

	for i := 0; i < 50; i++ {
		m.UserLoggedOut()
	}
	if got := m.activeUsers.Load(); got != 0 {
		t.Errorf("activeUsers after logout = %d, want 0", got)
	}
}

func TestLines(t *testing.T) {
	m := &Metrics{}
	m.PizzasOrdered(3)
	m.OrderFailed()
	m.AddRevenue(decimal.NewFromFloat(1.5))
	m.OrderLatency(42 * time.Millisecond)

	lines := m.Lines("test-service")
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"request,source=test-service,method=get total=0",
		"order,source=test-service pizzas=3 failed=1 revenue=1.5",
		"latency=42",
		"system,source=test-service memory=",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("lines missing %q:\n%s", want, joined)
		}
	}
}

func TestFlush(t *testing.T) {
	m := &Metrics{}
	m.PizzasOrdered(7)

	var gotAuth string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
	}))
	defer srv.Close()

	m.Flush(config.SinkConfig{URL: srv.URL, UserID: "123", APIKey: "key", Source: "test"})

	if gotAuth != "Bearer 123:key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !strings.Contains(gotBody, "pizzas=7") {
		t.Errorf("body missing pizza count:\n%s", gotBody)
	}
}

func TestFlusherRequiresSink(t *testing.T) {
	m := &Metrics{}
	// A blank sink URL disables the flusher entirely; nothing to join on.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.StartFlusher(ctx, config.SinkConfig{}, time.Millisecond)
}
