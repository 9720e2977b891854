// Package metrics keeps process-wide telemetry counters and pushes them
// to a Grafana-style endpoint in Influx line protocol. Counters are
// advisory: increments are atomic, reads tolerate races, and nothing here
// ever blocks a request.
package metrics

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wpendl99/jwt-pizza-service/config"
)

type Metrics struct {
	getRequests    atomic.Int64
	postRequests   atomic.Int64
	putRequests    atomic.Int64
	deleteRequests atomic.Int64

	activeUsers   atomic.Int64
	authSuccesses atomic.Int64
	authFailures  atomic.Int64

	pizzasOrdered atomic.Int64
	failedOrders  atomic.Int64
	revenueBits   atomic.Uint64

	latencyMS      atomic.Int64
	orderLatencyMS atomic.Int64
}

// M is the process-wide aggregate handed to request-handling code.
var M = &Metrics{}

// Middleware counts requests by method and records request latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet:
			m.getRequests.Add(1)
		case http.MethodPost:
			m.postRequests.Add(1)
		case http.MethodPut:
			m.putRequests.Add(1)
		case http.MethodDelete:
			m.deleteRequests.Add(1)
		}
		start := time.Now()
		c.Next()
		m.latencyMS.Store(time.Since(start).Milliseconds())
	}
}

func (m *Metrics) UserLoggedIn()  { m.activeUsers.Add(1) }
func (m *Metrics) UserLoggedOut() { m.activeUsers.Add(-1) }

func (m *Metrics) AuthSucceeded() { m.authSuccesses.Add(1) }
func (m *Metrics) AuthFailed()    { m.authFailures.Add(1) }

func (m *Metrics) PizzasOrdered(count int) { m.pizzasOrdered.Add(int64(count)) }
func (m *Metrics) OrderFailed()            { m.failedOrders.Add(1) }

// AddRevenue folds an order total into the running revenue gauge.
func (m *Metrics) AddRevenue(amount decimal.Decimal) {
	f, _ := amount.Float64()
	for {
		old := m.revenueBits.Load()
		updated := math.Float64bits(math.Float64frombits(old) + f)
		if m.revenueBits.CompareAndSwap(old, updated) {
			return
		}
	}
}

// OrderLatency records the factory round-trip time for the last order.
func (m *Metrics) OrderLatency(d time.Duration) {
	m.orderLatencyMS.Store(d.Milliseconds())
}

func (m *Metrics) revenue() float64 {
	return math.Float64frombits(m.revenueBits.Load())
}

func memoryUsagePercent() float64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if stats.Sys == 0 {
		return 0
	}
	return float64(stats.Alloc) / float64(stats.Sys) * 100
}

// Lines renders every metric as Influx line protocol.
func (m *Metrics) Lines(source string) []string {
	return []string{
		fmt.Sprintf("request,source=%s,method=get total=%d", source, m.getRequests.Load()),
		fmt.Sprintf("request,source=%s,method=post total=%d", source, m.postRequests.Load()),
		fmt.Sprintf("request,source=%s,method=put total=%d", source, m.putRequests.Load()),
		fmt.Sprintf("request,source=%s,method=delete total=%d", source, m.deleteRequests.Load()),
		fmt.Sprintf("request,source=%s latency=%d", source, m.latencyMS.Load()),
		fmt.Sprintf("user,source=%s active=%d", source, m.activeUsers.Load()),
		fmt.Sprintf("auth,source=%s successful=%d failed=%d", source, m.authSuccesses.Load(), m.authFailures.Load()),
		fmt.Sprintf("order,source=%s pizzas=%d failed=%d revenue=%f latency=%d",
			source, m.pizzasOrdered.Load(), m.failedOrders.Load(), m.revenue(), m.orderLatencyMS.Load()),
		fmt.Sprintf("system,source=%s memory=%f goroutines=%d", source, memoryUsagePercent(), runtime.NumGoroutine()),
	}
}

// StartFlusher pushes all metrics to the sink every interval until the
// context is cancelled. It runs on its own goroutine and never touches
// the request path; transport failures are logged and dropped.
func (m *Metrics) StartFlusher(ctx context.Context, sink config.SinkConfig, interval time.Duration) {
	if sink.URL == "" {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Flush(sink)
			}
		}
	}()
}

var client = &http.Client{Timeout: 3 * time.Second}

// Flush pushes one snapshot of every metric.
func (m *Metrics) Flush(sink config.SinkConfig) {
	body := strings.Join(m.Lines(sink.Source), "\n")
	req, err := http.NewRequest(http.MethodPost, sink.URL, strings.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+sink.UserID+":"+sink.APIKey)
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Failed to push metrics:", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Println("Metrics sink responded", resp.StatusCode)
	}
}
