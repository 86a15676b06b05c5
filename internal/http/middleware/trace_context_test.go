package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, "bad\nid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-123" {
		t.Fatalf("request id: got=%+v", seen)
	}
	if strings.Contains(seen.TraceID, "\n") || seen.TraceID == "" {
		t.Fatalf("unsafe trace id should be replaced, got=%q", seen.TraceID)
	}
	if rec.Header().Get(headerTraceID) != seen.TraceID || rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("ids not echoed: %v", rec.Header())
	}
}

func TestClientID(t *testing.T) {
	if clientID(strings.Repeat("a", maxClientIDLen+1)) != "" {
		t.Fatalf("overlong id accepted")
	}
	if clientID(" abc ") != "abc" {
		t.Fatalf("trimmed id rejected")
	}
	if clientID("a b") != "" {
		t.Fatalf("id with space accepted")
	}
}
