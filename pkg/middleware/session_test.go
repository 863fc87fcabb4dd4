package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, Session(c))
	})
	return router
}

func TestSessionMiddleware_Header(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test?session_id=from-query", nil)
	req.Header.Set(SessionHeader, " from-header ")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-header", w.Body.String())
}

func TestSessionMiddleware_Query(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test?session_id=from-query", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, "from-query", w.Body.String())
}

func TestSessionMiddleware_Anonymous(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
