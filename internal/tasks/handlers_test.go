package tasks

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithinGracePeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := fmt.Sprintf("files/%d_report.pdf", now.Add(-10*time.Minute).Unix())
	stale := fmt.Sprintf("files/%d_report.pdf", now.Add(-2*time.Hour).Unix())

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"recent upload is protected", fresh, true},
		{"old upload is sweepable", stale, false},
		{"no timestamp prefix is protected", "files/report.pdf", true},
		{"non-numeric prefix is protected", "files/final_report.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withinGracePeriod(tt.path, now))
		})
	}
}
