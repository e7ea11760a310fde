package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhermher/savvy/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("AGE", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("INCOME", 0xfedcba0987654321))

	require.False(t, tracker.HasCollision())
}

func TestTracker_Track_EmptyName(t *testing.T) {
	tracker := NewTracker()

	err := tracker.Track("", 0x1234567890abcdef)

	require.ErrorIs(t, err, errs.ErrInvalidColumnName)
	require.NoError(t, tracker.Track("AGE", 0x1234567890abcdef))
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("AGE", 0x1))
	err := tracker.Track("AGE", 0x1)

	require.ErrorIs(t, err, errs.ErrDuplicateColumn)
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track_Collision(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("AGE", 0x1))
	require.NoError(t, tracker.Track("SEX", 0x1))

	require.True(t, tracker.HasCollision())

	// The first name keeps the hash, so a later duplicate of the second
	// name is only caught by the caller's name index.
	require.NoError(t, tracker.Track("SEX", 0x1))
	require.ErrorIs(t, tracker.Track("AGE", 0x1), errs.ErrDuplicateColumn)
}
