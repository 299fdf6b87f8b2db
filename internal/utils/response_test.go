package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func TestOKEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"name": "Dr. Smith"})
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotNil(t, resp["data"])
	assert.NotContains(t, resp, "count")
	assert.NotContains(t, resp, "message")
}

func TestOKCountEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		OKCount(c, http.StatusOK, 0, []string{})
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	// A zero count must still be serialized.
	assert.Equal(t, float64(0), resp["count"])
}

func TestFailEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, "Please add a name")
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Please add a name", resp["message"])
	assert.NotContains(t, resp, "data")
}
