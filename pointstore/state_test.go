package pointstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/rcf"
	"github.com/riftlabs/rcf/pointstore"
)

func buildSampleStore(t *testing.T) *pointstore.Store {
	t.Helper()
	s := pointstore.New(pointstore.WithDimension(2))
	var handles []pointstore.PointHandle
	for i := 0; i < 6; i++ {
		h, err := s.Admit(rcf.Point{float64(i), float64(i) * 2}, int64(i))
		require.NoError(t, err)
		handles = append(handles, h)
	}
	_, err := s.DecRef(handles[2])
	require.NoError(t, err)
	_, err = s.DecRef(handles[4])
	require.NoError(t, err)
	return s
}

func TestStateRoundTripUncompressed(t *testing.T) {
	s := buildSampleStore(t)
	state := pointstore.ToState(s, false)

	rebuilt, err := pointstore.ToModel(state)
	require.NoError(t, err)

	for h := pointstore.PointHandle(0); h < 6; h++ {
		want, wantErr := s.Get(h)
		got, gotErr := rebuilt.Get(h)
		if wantErr != nil {
			require.Error(t, gotErr)
			continue
		}
		require.NoError(t, gotErr)
		assert.Equal(t, want, got)
	}
}

func TestStateRoundTripCompressed(t *testing.T) {
	s := buildSampleStore(t)
	state := pointstore.ToState(s, true)
	assert.True(t, state.Compressed)

	rebuilt, err := pointstore.ToModel(state)
	require.NoError(t, err)

	got, err := rebuilt.Get(0)
	require.NoError(t, err)
	assert.Equal(t, rcf.Point{0, 0}, got)
}

func TestStateRoundTripIsStable(t *testing.T) {
	s := buildSampleStore(t)
	state1 := pointstore.ToState(s, false)
	rebuilt, err := pointstore.ToModel(state1)
	require.NoError(t, err)
	state2 := pointstore.ToState(rebuilt, false)

	assert.Equal(t, state1.PointData, state2.PointData)
	assert.Equal(t, state1.RefCount, state2.RefCount)
	assert.Equal(t, state1.LocationList, state2.LocationList)
	assert.Equal(t, state1.Dimensions, state2.Dimensions)
}

func TestStateRoundTripUnrotatesRotatedPoints(t *testing.T) {
	s := pointstore.New(pointstore.WithDimension(4), pointstore.WithInternalShingling(2), pointstore.WithRotation(true))
	var handles []pointstore.PointHandle
	for i, tail := range []rcf.Point{{1, 2}, {3, 4}, {5, 6}} {
		h, err := s.AdmitShingleEntry(tail, int64(i))
		require.NoError(t, err)
		handles = append(handles, h)
	}

	want := make([]rcf.Point, len(handles))
	for i, h := range handles {
		p, err := s.Get(h)
		require.NoError(t, err)
		want[i] = append(rcf.Point{}, p...)
	}

	state := pointstore.ToState(s, false)
	rebuilt, err := pointstore.ToModel(state)
	require.NoError(t, err)

	for i, h := range handles {
		got, err := rebuilt.Get(h)
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
	}
}

func TestPrecisionMismatch(t *testing.T) {
	s := buildSampleStore(t)
	state := pointstore.ToState(s, false)
	state.Precision = pointstore.PrecisionFloat32
	_, err := pointstore.ToModel(state)
	require.ErrorIs(t, err, rcf.ErrPrecisionMismatch)
}
