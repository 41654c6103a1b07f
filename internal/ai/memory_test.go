package ai

import (
	"testing"

	"dogfight-arena/internal/vec"

	"github.com/stretchr/testify/assert"
)

func TestMemoryKeepsNewestSamples(t *testing.T) {
	m := newMemory()
	for i := 0; i < 45; i++ {
		m.record(7, vec.New(float64(i), 0, 0))
	}
	got := m.samples(7)
	assert.Len(t, got, memorySamples)
	assert.Equal(t, 15.0, got[0].X)
	last, ok := m.last(7)
	assert.True(t, ok)
	assert.Equal(t, 44.0, last.X)
}

func TestMemoryMeanNeedsEnoughSamples(t *testing.T) {
	m := newMemory()
	for i := 0; i < predictionSamples; i++ {
		m.record(1, vec.New(2, 0, 0))
	}
	_, ok := m.meanVelocity(1)
	assert.False(t, ok)

	m.record(1, vec.New(12, 0, 0))
	v, ok := m.meanVelocity(1)
	assert.True(t, ok)
	// nine 2s and one 12 in the window
	assert.InDelta(t, 3.0, v.X, 1e-9)
}

func TestMemoryPrunesUnseen(t *testing.T) {
	m := newMemory()
	m.record(1, vec.New(1, 0, 0))
	m.record(2, vec.New(1, 0, 0))
	m.prune()

	m.record(1, vec.New(1, 0, 0))
	m.prune()
	assert.Len(t, m.samples(1), 2)
	assert.Empty(t, m.samples(2))
	_, ok := m.last(2)
	assert.False(t, ok)
}
