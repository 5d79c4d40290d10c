package dto

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out any) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(out)
}

func TestReorderBindingAcceptsEmptyTarget(t *testing.T) {
	// A grouped request dragged out with no drop target still reaches the
	// reconciler, which appends it to the flat list.
	var body ReorderDTO
	err := bindJSON(t, `{"movedId":"r2","targetId":""}`, &body)
	require.NoError(t, err)
	assert.Equal(t, "r2", body.MovedID)
	assert.Empty(t, body.TargetID)

	err = bindJSON(t, `{"movedId":"r2"}`, &body)
	require.NoError(t, err)
}

func TestReorderBindingRequiresMovedID(t *testing.T) {
	var body ReorderDTO
	err := bindJSON(t, `{"targetId":"r1"}`, &body)
	assert.Error(t, err)
}
