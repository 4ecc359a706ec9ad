package common

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFprintfIfNotEmpty(t *testing.T) {
	var buf bytes.Buffer
	FprintfIfNotEmpty(&buf, "IP:\t%s\n", "")
	FprintfIfNotEmpty(&buf, "IP:\t%s\n", nil)
	assert.Empty(t, buf.String())

	FprintfIfNotEmpty(&buf, "IP:\t%s\n", "10.0.0.1")
	assert.Equal(t, "IP:\t10.0.0.1\n", buf.String())
}

func TestTimestampAgo(t *testing.T) {
	assert.Equal(t, "-", TimestampAgo(time.Time{}))
	assert.Equal(t, "3 minutes ago", TimestampAgo(time.Now().Add(-3*time.Minute)))
}
