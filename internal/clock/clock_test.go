package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowUsesDefaultWhenSet(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	old := Default
	Default = func() time.Time { return fixed }
	defer func() { Default = old }()

	require.True(t, Now().Equal(fixed))
}

func TestNowFallsBackToRealClock(t *testing.T) {
	old := Default
	Default = nil
	defer func() { Default = old }()

	before := time.Now()
	got := Now()
	after := time.Now()

	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}

func TestEntityTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 30, 45, 0, time.UTC)
	v := EntityTimestamp(ts)
	got := EntityTime(v)

	require.WithinDuration(t, ts, got, time.Second/65536)
}

func TestEntityTimestampBeforeEpochIsZero(t *testing.T) {
	before := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, uint64(0), EntityTimestamp(before))
}

func TestEntityTimestampAtEpoch(t *testing.T) {
	require.Equal(t, uint64(0), EntityTimestamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}
