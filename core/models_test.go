package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		first := IDFromContent("jane@example.com")
		second := IDFromContent("jane@example.com")
		assert.Equal(t, first, second)
	})

	t.Run("distinct content yields distinct IDs", func(t *testing.T) {
		a := IDFromContent("jane@example.com")
		b := IDFromContent("john@example.com")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		assert.NotPanics(t, func() { IDFromContent("") })
	})
}
