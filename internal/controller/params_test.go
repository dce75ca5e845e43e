package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return ctx, w
}

func TestPathUintRejectsGarbage(t *testing.T) {
	ctx, w := newTestContext(t)
	ctx.Params = gin.Params{{Key: "setId", Value: "abc"}}

	_, ok := pathUint(ctx, "setId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetailRejectsGarbledSetID(t *testing.T) {
	ctx, w := newTestContext(t)
	ctx.Params = gin.Params{{Key: "setId", Value: "12abc"}}

	// A garbled identifier must 400 before any service is consulted; the
	// nil services prove the handler never gets that far.
	NewAssignmentController(nil, nil).Detail(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryUintRejectsNegative(t *testing.T) {
	ctx, w := newTestContext(t)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/?userId=-1", nil)

	_, ok := queryUint(ctx, "userId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
