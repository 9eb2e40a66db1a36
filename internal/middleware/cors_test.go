package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSHeadersOnPOST(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/create", CORS(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/create", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}

	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Max-Age":       "86400",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORSAbortsOnOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.OPTIONS("/create", CORS(), func(c *gin.Context) {
		handlerCalled = true
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/create", nil))

	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("corps = %q, réponse vide attendue", w.Body.String())
	}
	if handlerCalled {
		t.Error("le handler suivant ne doit pas être appelé pour une requête préliminaire")
	}
}
