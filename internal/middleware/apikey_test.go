package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequireAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		configured string
		sent       string
		want       int
	}{
		{name: "unconfigured", configured: "", sent: "", want: http.StatusUnauthorized},
		{name: "unconfigured with header", configured: "", sent: "k1", want: http.StatusUnauthorized},
		{name: "match", configured: "k1", sent: "k1", want: http.StatusOK},
		{name: "missing", configured: "k1", sent: "", want: http.StatusUnauthorized},
		{name: "wrong", configured: "k1", sent: "k2", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", RequireAPIKey(tt.configured), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.sent != "" {
				req.Header.Set(APIKeyHeader, tt.sent)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
