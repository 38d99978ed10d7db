// Package clock provides the injected timestamp source used to stamp
// entity headers (§5, §6), generalizing mebo's pattern of taking
// time.Time as an explicit argument rather than calling time.Now
// internally: here the source itself is swappable, defaulting to
// time.Now but overridable process-wide for deterministic tests.
package clock

import "time"

// Source returns the current time. The zero value of Default is nil,
// which Now treats as time.Now.
type Source func() time.Time

// Default is the process-wide timestamp source. Tests may overwrite it
// to a fixed Source for reproducibility (§9: "a deterministic seed must
// be accepted for reproducibility" generalized here to time as well).
var Default Source

// Now returns Default() if set, else time.Now().
func Now() time.Time {
	if Default != nil {
		return Default()
	}

	return time.Now()
}

// missionEpoch is the mission reference epoch (§6): 2020-01-01 UTC.
var missionEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// EntityTimestamp implements cmp_ent_create_timestamp (§6): a 48-bit
// value whose upper 32 bits are whole seconds since missionEpoch and
// whose lower 16 bits are the sub-second fraction in units of 1/65536 s.
// Returns 0 for any ts before the epoch.
func EntityTimestamp(ts time.Time) uint64 {
	d := ts.Sub(missionEpoch)
	if d < 0 {
		return 0
	}

	seconds := uint64(d / time.Second)
	frac := d % time.Second
	fracUnits := uint64(frac) * 65536 / uint64(time.Second)

	return (seconds << 16) | (fracUnits & 0xFFFF)
}

// EntityTime inverts EntityTimestamp.
func EntityTime(v uint64) time.Time {
	seconds := v >> 16
	fracUnits := v & 0xFFFF
	frac := time.Duration(fracUnits) * time.Second / 65536

	return missionEpoch.Add(time.Duration(seconds)*time.Second + frac)
}
