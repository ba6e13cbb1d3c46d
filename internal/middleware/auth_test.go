package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"yatube/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/create/", LoginURL("/create/"))
	assert.Equal(t, "/auth/login/?next=/search/%3Fq%3Da%26b", LoginURL("/search/?q=a&b"))
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/private/", AuthRequired(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/private/", w.Header().Get("Location"))

	r2 := gin.New()
	r2.GET("/private/",
		func(c *gin.Context) { c.Set(CheckUserKey, &models.User{ID: 7, Username: "leo"}) },
		AuthRequired(),
		func(c *gin.Context) { c.String(http.StatusOK, "%d", CurrentUserID(c)) },
	)
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
}

func TestCurrentUserAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, CurrentUser(c))
	assert.Zero(t, CurrentUserID(c))
}
