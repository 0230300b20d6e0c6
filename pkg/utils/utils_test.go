package utils

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionIDs(t *testing.T) {
	id := GenerateSessionID()
	assert.True(t, IsValidSessionID(id))
	assert.NotEqual(t, id, GenerateSessionID())

	assert.False(t, IsValidSessionID(""))
	assert.False(t, IsValidSessionID("not-a-session"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.5m", FormatDuration(150*time.Second))
	assert.Equal(t, "3.0h", FormatDuration(3*time.Hour))
}

func TestCustomError(t *testing.T) {
	err := NewNotFoundError("job")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "Not found: job", err.Error())

	assert.Equal(t, "bad form", NewBadRequestError("bad form").Error())
}
