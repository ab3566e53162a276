package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLoggerReturnsPrevious(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	prev := SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	assert.NotNil(t, prev)

	Logf("closure diverged for %s", "lead pair")
	assert.Equal(t, []string{"closure diverged for lead pair"}, got)

	custom := SetLogger(nil)
	Logf("dropped")
	assert.Len(t, got, 1)

	SetLogger(custom)
	Logf("restored")
	assert.Equal(t, []string{"closure diverged for lead pair", "restored"}, got)
}

func TestLogfDefault(t *testing.T) {
	assert.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
	assert.NotPanics(t, func() { Discard("ignored %d", 1) })
}
