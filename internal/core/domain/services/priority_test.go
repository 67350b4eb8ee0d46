package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		deadline time.Time
		expected services.Priority
	}{
		{"deadline already passed", now.Add(-5 * time.Minute), services.PriorityHigh},
		{"deadline right now", now, services.PriorityHigh},
		{"exactly 30 minutes out", now.Add(30 * time.Minute), services.PriorityHigh},
		{"30 minutes and 1 second out", now.Add(30*time.Minute + time.Second), services.PriorityMedium},
		{"exactly 60 minutes out", now.Add(60 * time.Minute), services.PriorityMedium},
		{"60 minutes and 1 second out", now.Add(60*time.Minute + time.Second), services.PriorityLow},
		{"several hours out", now.Add(4 * time.Hour), services.PriorityLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, services.ClassifyPriority(tc.deadline, now))
		})
	}
}

func TestClassifyPriority_Deterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	deadline := now.Add(25 * time.Minute)

	first := services.ClassifyPriority(deadline, now)
	second := services.ClassifyPriority(deadline, now)

	assert.Equal(t, first, second)
}
