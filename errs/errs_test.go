package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackIsErrorCode32RoundTrip(t *testing.T) {
	for _, c := range []Code{SmallBuffer, ColSubserviceUnsupported, Generic, EntityHeader, ParGolomb} {
		packed := Pack(c)
		require.True(t, IsError(packed))
		require.Equal(t, c, Code32(packed))
	}
}

func TestIsErrorFalseForSize(t *testing.T) {
	require.False(t, IsError(0))
	require.False(t, IsError(12345))
}

func TestCodeOf(t *testing.T) {
	c, ok := CodeOf(ErrSmallBuffer)
	require.True(t, ok)
	require.Equal(t, SmallBuffer, c)

	_, ok = CodeOf(errors.New("not ours"))
	require.False(t, ok)
}

func TestPackErr(t *testing.T) {
	require.Equal(t, Pack(EntityHeader), PackErr(ErrEntityHeader))
	require.Equal(t, Pack(Generic), PackErr(errors.New("unrelated")))
}

func TestErrorsIsMatchesSentinel(t *testing.T) {
	wrapped := errors.Join(ErrSmallBuffer, errors.New("context"))
	require.True(t, errors.Is(wrapped, ErrSmallBuffer))
}
