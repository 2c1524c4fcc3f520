package internal_test

import (
	"testing"
	"time"

	"github.com/logarc/logarc/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatch(t *testing.T) {
	t.Run("Measures phases in order", func(tt *testing.T) {
		sw := internal.NewStopwatch()
		sw.Phase("parse")
		time.Sleep(10 * time.Millisecond)
		sw.Phase("write")
		time.Sleep(time.Millisecond)

		laps := sw.Laps()
		require.Contains(tt, laps, "parse")
		require.Contains(tt, laps, "write")
		assert.True(tt, laps["parse"] >= 0.01)
		assert.True(tt, laps["write"] > 0)
	})

	t.Run("Reentered phase accumulates", func(tt *testing.T) {
		sw := internal.NewStopwatch()
		sw.Phase("parse")
		sw.Phase("write")
		sw.Phase("parse")

		laps := sw.Laps()
		assert.Equal(tt, 2, len(laps))
	})

	t.Run("No phase yields no laps", func(tt *testing.T) {
		sw := internal.NewStopwatch()
		assert.Equal(tt, 0, len(sw.Laps()))
	})
}
