package collision

import (
	"testing"

	"github.com/corvidlabs/uasig/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(0)

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track_Success(t *testing.T) {
	tracker := NewTracker(4)

	require.NoError(t, tracker.Track("IsMobile"))
	require.Equal(t, 1, tracker.Count())

	require.NoError(t, tracker.Track("DeviceType"))
	require.Equal(t, 2, tracker.Count())
	require.Equal(t, []string{"IsMobile", "DeviceType"}, tracker.Names())
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker(4)

	require.NoError(t, tracker.Track("IsMobile"))
	err := tracker.Track("IsMobile")
	require.ErrorIs(t, err, errs.ErrDuplicateName)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(4)
	require.NoError(t, tracker.Track("IsMobile"))
	require.NoError(t, tracker.Track("DeviceType"))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Names())

	require.NoError(t, tracker.Track("IsMobile"))
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_SeparateNamespacesDoNotCollide(t *testing.T) {
	// Two different properties each get their own Tracker for their value
	// names, so the same value name under different properties never
	// collides (invariant: values are unique within a property, not
	// globally).
	hardwareValues := NewTracker(2)
	softwareValues := NewTracker(2)

	require.NoError(t, hardwareValues.Track("Unknown"))
	require.NoError(t, softwareValues.Track("Unknown"))
}
