package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("test_timer")
	assert.Equal(t, "test_timer", timer.Name())

	// Sleep for a short duration
	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())

	str := timer.String()
	assert.Contains(t, str, "test_timer")
	assert.Contains(t, str, "ms")
}

func TestStageTimer(t *testing.T) {
	st := NewStageTimer()

	time.Sleep(5 * time.Millisecond)
	first := st.Mark("decode")
	assert.GreaterOrEqual(t, first, 5*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	st.Mark("stress")

	stages := st.Stages()
	assert.Len(t, stages, 2)
	assert.Equal(t, "decode", stages[0].Name())
	assert.Equal(t, "stress", stages[1].Name())

	assert.GreaterOrEqual(t, st.Total(), first)

	report := st.Report()
	assert.Contains(t, report, "decode:")
	assert.Contains(t, report, "stress:")
	assert.Contains(t, report, "total:")
}
