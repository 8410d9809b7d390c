package clock_test

import (
	"testing"
	"time"

	"event-checkin/internal/clock"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	at := time.Date(2026, 5, 1, 20, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	c := clock.NewFixed(at)

	assert.True(t, at.Equal(c.Now()))
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestSequence(t *testing.T) {
	t0 := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	s := clock.NewSequence(t0, t0.Add(time.Minute))

	assert.Equal(t, t0, s.Now())
	assert.Equal(t, t0.Add(time.Minute), s.Now())
	assert.Equal(t, t0.Add(time.Minute), s.Now())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	now := clock.NewSystem().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
	assert.Equal(t, time.UTC, now.Location())
}
