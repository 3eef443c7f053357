package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobMatch(t *testing.T) {
	g, err := New("*.log")
	assert.NoError(t, err)

	assert.True(t, g.Match("system.log"))
	assert.False(t, g.Match("system.txt"))
}

func TestGlobInvalidPattern(t *testing.T) {
	_, err := New("[")
	assert.Error(t, err)
}

func TestMatchAll(t *testing.T) {
	var m MatchAll
	assert.True(t, m.Match("anything"))
	assert.True(t, m.Match(""))
}
