// Package logger ships structured log events to a Loki-style sink and
// mirrors them to the local log. Shipping is fire-and-forget; a sink
// outage never fails a request, and the sink's response body is opaque
// data that is read and discarded, never interpreted.
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wpendl99/jwt-pizza-service/config"
)

var passwordPattern = regexp.MustCompile(`"password"\s*:\s*"[^"]*"`)

// sanitize masks password values before anything leaves the process.
func sanitize(line string) string {
	return passwordPattern.ReplaceAllString(line, `"password":"*****"`)
}

func statusToLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}

// Log ships one event tagged with a level and type.
func Log(level, kind string, data map[string]interface{}) {
	line, err := json.Marshal(data)
	if err != nil {
		return
	}
	event := map[string]interface{}{
		"streams": []map[string]interface{}{{
			"stream": map[string]string{
				"component": config.App.Logging.Source,
				"level":     level,
				"type":      kind,
			},
			"values": [][]string{{
				fmt.Sprintf("%d", time.Now().UnixNano()),
				sanitize(string(line)),
			}},
		}},
	}
	go ship(event)
}

var client = &http.Client{Timeout: 3 * time.Second}

func ship(event map[string]interface{}) {
	sink := config.App.Logging
	if sink.URL == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, sink.URL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sink.UserID+":"+sink.APIKey)
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Failed to ship log event:", err)
		return
	}
	// The sink's reply is drained and dropped; it is never parsed or acted on.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// HTTPLogger logs every request with sanitized request and response
// bodies and a per-request id.
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		Log(statusToLevel(c.Writer.Status()), "http", map[string]interface{}{
			"requestId":  uuid.NewString(),
			"authorized": c.GetHeader("Authorization") != "",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"statusCode": c.Writer.Status(),
			"reqBody":    string(reqBody),
			"resBody":    capture.buf.String(),
		})
	}
}

// DBQuery logs a persistence-layer event.
func DBQuery(query string) {
	Log("info", "db", map[string]interface{}{"query": query})
}

// Factory logs an order-verification exchange.
func Factory(orderInfo map[string]interface{}) {
	Log("info", "factory", orderInfo)
}

// UnhandledError logs an error that fell through to the generic handler.
func UnhandledError(err error) {
	log.Println("Unhandled error:", err)
	Log("error", "unhandledError", map[string]interface{}{"message": err.Error()})
}
