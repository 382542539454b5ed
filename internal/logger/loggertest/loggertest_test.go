package loggertest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	log := New(t)
	log.With("component", "test").Debug("visible in -v output", "k", 2)
	assert.NoError(t, log.Sync())
}
