package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySpec(t *testing.T) {
	spec, err := dailySpec("08:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 8 * * *", spec)

	for _, bad := range []string{"", "8", "24:00", "12:60", "ab:cd"} {
		_, err := dailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestScheduler_IntervalRunsAndRemoves(t *testing.T) {
	s := NewSchedulerService(time.UTC)

	ran := make(chan struct{}, 10)
	id, err := s.ScheduleInterval(time.Millisecond, func() { ran <- struct{}{} })
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	s.Remove(id)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := NewSchedulerService(nil)
	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
}
