package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/jwt"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/telemetry"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(manager *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Auth(manager, logger.Nop()))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    GetUserID(c),
			"email":     c.GetString(EmailKey),
			"requestId": GetRequestID(c),
		})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth_ValidToken(t *testing.T) {
	manager := jwt.NewManager(&jwt.Config{Secret: testSecret})
	token, err := manager.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	w := doGet(newAuthRouter(manager), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "u1@example.com", body["email"])
	assert.NotEmpty(t, body["requestId"])
	assert.Equal(t, body["requestId"], w.Header().Get(RequestIDHeader))
}

func TestAuth_Rejections(t *testing.T) {
	manager := jwt.NewManager(&jwt.Config{Secret: testSecret})
	expiredManager := jwt.NewManager(&jwt.Config{Secret: testSecret, TokenExpiry: -time.Minute})
	expired, err := expiredManager.GenerateToken("u1", "")
	require.NoError(t, err)
	otherSecret, err := jwt.NewManager(&jwt.Config{Secret: "another-secret-another-secret-xx"}).GenerateToken("u1", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "missing header", header: "", wantMsg: "Unauthorized"},
		{name: "wrong scheme", header: "Basic abc", wantMsg: "Unauthorized"},
		{name: "empty bearer", header: "Bearer ", wantMsg: "Unauthorized"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantMsg: "Invalid token"},
		{name: "wrong secret", header: "Bearer " + otherSecret, wantMsg: "Invalid token"},
		{name: "expired", header: "Bearer " + expired, wantMsg: "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(newAuthRouter(manager), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, w)["error"])
		})
	}
}

func TestRequestID_PropagatesClientHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(logger.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingAndTracing(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Tracing("radio-svc"), Logging(logger.Nop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracing_PropagatesIncomingTraceID(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	r := gin.New()
	r.Use(Tracing("radio-svc"))
	var ctxTraceID string
	r.GET("/ok", func(c *gin.Context) {
		ctxTraceID = telemetry.TraceIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ctxTraceID)
}
