package pointstore

import (
	"github.com/pkg/errors"
	"github.com/riftlabs/rcf"
)

const (
	stateMagic   uint32 = 0x52434653 // "RCFS"
	stateVersion uint16 = 1

	// PrecisionFloat64 is the only precision tag this codec currently
	// writes or accepts; PrecisionFloat32 is reserved for a future
	// half-the-size encoding.
	PrecisionFloat64 = "FLOAT_64"
	PrecisionFloat32 = "FLOAT_32"
)

// State is the opaque, versioned, persisted form of a Store.
type State struct {
	Magic   uint32
	Version uint16

	Dimensions           int
	Capacity             int
	IndexCapacity        int
	CurrentStoreCapacity int
	ShingleSize          int
	StartOfFreeSegment   int
	Precision            string

	InternalShinglingEnabled bool
	RotationEnabled          bool
	DynamicResizingEnabled   bool
	DirectLocationMap        bool
	Compressed               bool

	InternalShingle []float64
	LastTimeStamp   int64

	PointData    []byte
	RefCount     []byte
	LocationList []byte
}

// ToState compacts store and maps it to its persisted form. compressed
// selects whether PointData/RefCount/LocationList are snappy-encoded; the
// flag travels with the State so ToModel never has to guess.
func ToState(s *Store, compressed bool) *State {
	s.normalizeRotation()
	s.Compact()
	validPrefix := s.ValidPrefix()

	refCount := encodeVarintUint32s(s.refCount[:validPrefix])
	locationList := encodeVarintInt64s(s.locationList[:validPrefix])
	pointData := encodeDoubles(s.store[:s.startOfFreeSegment*s.dim])

	shingle := make([]float64, 0)
	if s.shinglingEnabled {
		shingle = append(shingle, s.knownShingle...)
	}

	return &State{
		Magic:   stateMagic,
		Version: stateVersion,

		Dimensions:           s.dim,
		Capacity:             validPrefix,
		IndexCapacity:        s.capacity,
		CurrentStoreCapacity: s.currentStoreCapacity,
		ShingleSize:          s.shingleSize,
		StartOfFreeSegment:   s.startOfFreeSegment,
		Precision:            PrecisionFloat64,

		InternalShinglingEnabled: s.shinglingEnabled,
		RotationEnabled:          s.rotationEnabled,
		DynamicResizingEnabled:   s.dynamicResizing,
		DirectLocationMap:        s.directLocationMap,
		Compressed:               compressed,

		InternalShingle: shingle,
		LastTimeStamp:   s.lastTimestamp,

		PointData:    maybeCompress(pointData, compressed),
		RefCount:     maybeCompress(refCount, compressed),
		LocationList: maybeCompress(locationList, compressed),
	}
}

// ToModel reconstructs a live Store from a persisted State.
func ToModel(state *State) (*Store, error) {
	if state.Precision != PrecisionFloat64 {
		return nil, errors.Wrapf(rcf.ErrPrecisionMismatch, "got %q, want %q", state.Precision, PrecisionFloat64)
	}

	pointData, err := maybeDecompress(state.PointData, state.Compressed)
	if err != nil {
		return nil, errors.Wrap(err, "pointstore: decompress point data")
	}
	refCountBuf, err := maybeDecompress(state.RefCount, state.Compressed)
	if err != nil {
		return nil, errors.Wrap(err, "pointstore: decompress refcount")
	}
	locationListBuf, err := maybeDecompress(state.LocationList, state.Compressed)
	if err != nil {
		return nil, errors.Wrap(err, "pointstore: decompress location list")
	}

	validPrefix := state.Capacity
	refCount := make([]uint32, state.IndexCapacity)
	copy(refCount, decodeVarintUint32s(refCountBuf, validPrefix))

	locationList := make([]int64, state.IndexCapacity)
	for i := range locationList {
		locationList[i] = -1
	}
	copy(locationList, decodeVarintInt64s(locationListBuf, validPrefix))

	s := &Store{
		dim:                  state.Dimensions,
		shingleSize:          state.ShingleSize,
		shinglingEnabled:     state.InternalShinglingEnabled,
		rotationEnabled:      state.RotationEnabled,
		dynamicResizing:      state.DynamicResizingEnabled,
		directLocationMap:    state.DirectLocationMap,
		capacity:             state.IndexCapacity,
		refCount:             refCount,
		locationList:         locationList,
		store:                decodeDoubles(pointData, state.StartOfFreeSegment*state.Dimensions),
		currentStoreCapacity: state.CurrentStoreCapacity,
		startOfFreeSegment:   state.StartOfFreeSegment,
		nextHandle:           PointHandle(validPrefix),
		nextSequenceIndex:    state.LastTimeStamp + 1,
		lastTimestamp:        state.LastTimeStamp,
	}
	s.rotationOffsets = make([]int, s.capacity)
	s.knownShingle = make([]float64, s.dim)
	if len(state.InternalShingle) == s.dim {
		copy(s.knownShingle, state.InternalShingle)
		s.haveShingle = true
	}
	for h := 0; h < validPrefix; h++ {
		if s.locationList[h] < 0 {
			s.freeHandles = append(s.freeHandles, PointHandle(h))
		}
	}
	return s, nil
}
