package pointstore

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/riftlabs/rcf"
)

// PointHandle is an opaque, non-negative index into a Store. It is stable
// across compactions: compaction only ever moves backing bytes, never
// renumbers handles.
type PointHandle = uint32

// Infeasible is math.MaxUint32 as a PointHandle. The store itself does not
// use it: a free handle's locationList entry is -1.
const Infeasible PointHandle = math.MaxUint32

const growthFactor = 2

// Option configures a Store at construction time.
type Option func(*Store)

// WithDimension sets the vector dimensionality. Required.
func WithDimension(dim int) Option {
	return func(s *Store) { s.dim = dim }
}

// WithCapacity sets the initial number of handle slots.
func WithCapacity(capacity int) Option {
	return func(s *Store) { s.capacity = capacity }
}

// WithDynamicResizing allows the store to grow its handle capacity instead
// of failing with ErrCapacityExceeded once full.
func WithDynamicResizing(enabled bool) Option {
	return func(s *Store) { s.dynamicResizing = enabled }
}

// WithDirectLocationMap disables compaction: Compact leaves every point at
// the offset it was admitted at. Offsets are still handed out in admission
// order, so locationList[h] equals h only until a freed handle is recycled.
func WithDirectLocationMap(enabled bool) Option {
	return func(s *Store) { s.directLocationMap = enabled }
}

// WithInternalShingling enables the AdmitShingleEntry path: callers supply
// only the trailing shingleSize floats of each new vector, and the store
// reconstructs the full dim-length point from its rolling buffer.
func WithInternalShingling(shingleSize int) Option {
	return func(s *Store) {
		s.shinglingEnabled = true
		s.shingleSize = shingleSize
	}
}

// WithRotation marks the shingle window as logically cyclic: AdmitShingleEntry
// writes each new stride into a rotating slot of the shingle buffer instead
// of shifting the whole window, and Get unrotates the stored coordinates back
// to natural (oldest-to-newest) order before returning them.
func WithRotation(enabled bool) Option {
	return func(s *Store) { s.rotationEnabled = enabled }
}

// Store is an arena of capacity point-handle slots backed by a packed
// float64 array. It is not safe for concurrent use without external
// synchronization; the forest executor serializes access per component and
// only compacts between external calls.
type Store struct {
	dim               int
	shingleSize       int
	shinglingEnabled  bool
	rotationEnabled   bool
	dynamicResizing   bool
	directLocationMap bool
	capacity          int

	refCount             []uint32
	locationList         []int64 // point-slot offset, or -1 when free
	store                []float64
	currentStoreCapacity int // in point-slots
	startOfFreeSegment   int // in point-slots

	nextHandle  PointHandle
	freeHandles []PointHandle

	knownShingle      []float64
	haveShingle       bool
	rotationCursor    int // next write slot within knownShingle, a multiple of shingleSize
	rotationOffsets   []int
	nextSequenceIndex int64
	lastTimestamp     int64
}

// New constructs a Store. WithDimension is required; all other options
// default to: capacity 256, shingling disabled, dynamic resizing enabled,
// compacted (not direct) location map.
func New(opts ...Option) *Store {
	s := &Store{
		capacity:        256,
		dynamicResizing: true,
		shingleSize:     0,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dim <= 0 {
		panic("pointstore: WithDimension is required and must be positive")
	}
	if s.shingleSize == 0 {
		s.shingleSize = s.dim
	}
	s.refCount = make([]uint32, s.capacity)
	s.locationList = make([]int64, s.capacity)
	for i := range s.locationList {
		s.locationList[i] = -1
	}
	s.currentStoreCapacity = s.capacity
	s.store = make([]float64, 0, s.capacity*s.dim)
	s.knownShingle = make([]float64, s.dim)
	s.rotationOffsets = make([]int, s.capacity)
	return s
}

// Dimension returns the vector dimensionality.
func (s *Store) Dimension() int { return s.dim }

// ShingleSize returns the configured shingle stride (equal to Dimension
// when internal shingling is disabled).
func (s *Store) ShingleSize() int { return s.shingleSize }

// Capacity returns the current number of handle slots.
func (s *Store) Capacity() int { return s.capacity }

// Admit stores a copy of point, returning a stable handle. point must have
// length Dimension() and must not contain NaN.
func (s *Store) Admit(point rcf.Point, seqIdx int64) (PointHandle, error) {
	if len(point) != s.dim {
		return 0, errors.Wrapf(rcf.ErrInvalidDimension, "store dim %d, point dim %d", s.dim, len(point))
	}
	if rcf.HasNaN(point) {
		return 0, errors.Wrap(rcf.ErrInvalidPoint, "NaN coordinate on insert")
	}
	return s.admitResolved(point, seqIdx)
}

// AdmitShingleEntry appends tail (length ShingleSize()) to the rolling
// shingle buffer and admits the resulting full-length vector. Used when the
// caller streams raw scalars instead of pre-built shingles.
//
// When rotation is enabled, the tail overwrites the oldest slot of the
// shingle buffer in place rather than shifting the whole window, and the
// admitted point is stored in that same rotated layout; Get unrotates it back
// to natural order on read. When rotation is disabled, the window is
// reassembled into natural order on every admit, as before.
func (s *Store) AdmitShingleEntry(tail rcf.Point, seqIdx int64) (PointHandle, error) {
	if !s.shinglingEnabled {
		return 0, errors.New("pointstore: internal shingling not enabled")
	}
	if len(tail) != s.shingleSize {
		return 0, errors.Wrapf(rcf.ErrInvalidDimension, "shingle stride %d, tail dim %d", s.shingleSize, len(tail))
	}

	if s.rotationEnabled {
		copy(s.knownShingle[s.rotationCursor:s.rotationCursor+s.shingleSize], tail)
		s.rotationCursor = (s.rotationCursor + s.shingleSize) % s.dim
		rotated := make(rcf.Point, s.dim)
		copy(rotated, s.knownShingle)
		handle, err := s.admitRotated(rotated, s.rotationCursor, seqIdx)
		if err != nil {
			return 0, err
		}
		s.haveShingle = true
		return handle, nil
	}

	next := make(rcf.Point, s.dim)
	copy(next, s.knownShingle[s.shingleSize:])
	copy(next[s.dim-s.shingleSize:], tail)
	handle, err := s.Admit(next, seqIdx)
	if err != nil {
		return 0, err
	}
	s.knownShingle = next
	s.haveShingle = true
	return handle, nil
}

// admitRotated admits a point already laid out in rotated form, recording
// offset so Get can unrotate it back to natural order.
func (s *Store) admitRotated(rotated rcf.Point, offset int, seqIdx int64) (PointHandle, error) {
	if rcf.HasNaN(rotated) {
		return 0, errors.Wrap(rcf.ErrInvalidPoint, "NaN coordinate on insert")
	}
	handle, err := s.admitResolved(rotated, seqIdx)
	if err != nil {
		return 0, err
	}
	s.rotationOffsets[handle] = offset
	return handle, nil
}

func (s *Store) admitResolved(point rcf.Point, seqIdx int64) (PointHandle, error) {
	handle, err := s.allocHandle()
	if err != nil {
		return 0, err
	}
	offset := s.startOfFreeSegment
	s.store = append(s.store, point...)
	s.startOfFreeSegment = offset + 1
	s.locationList[handle] = int64(offset)
	s.refCount[handle] = 1
	s.rotationOffsets[handle] = 0
	if seqIdx >= s.nextSequenceIndex {
		s.nextSequenceIndex = seqIdx + 1
	}
	s.lastTimestamp = seqIdx
	return handle, nil
}

func (s *Store) allocHandle() (PointHandle, error) {
	if n := len(s.freeHandles); n > 0 {
		h := s.freeHandles[n-1]
		s.freeHandles = s.freeHandles[:n-1]
		return h, nil
	}
	if int(s.nextHandle) >= s.capacity {
		if !s.dynamicResizing {
			return 0, errors.Wrapf(rcf.ErrCapacityExceeded, "capacity %d exhausted", s.capacity)
		}
		s.grow()
	}
	h := s.nextHandle
	s.nextHandle++
	return h, nil
}

func (s *Store) grow() {
	newCapacity := s.capacity * growthFactor
	if newCapacity == 0 {
		newCapacity = 1
	}
	refCount := make([]uint32, newCapacity)
	copy(refCount, s.refCount)
	locationList := make([]int64, newCapacity)
	for i := range locationList {
		if i < len(s.locationList) {
			locationList[i] = s.locationList[i]
		} else {
			locationList[i] = -1
		}
	}
	rotationOffsets := make([]int, newCapacity)
	copy(rotationOffsets, s.rotationOffsets)
	s.refCount = refCount
	s.locationList = locationList
	s.rotationOffsets = rotationOffsets
	s.capacity = newCapacity
	s.currentStoreCapacity = newCapacity
}

// IncRef increments handle's reference count and returns the new count.
func (s *Store) IncRef(handle PointHandle) (uint32, error) {
	if err := s.checkLive(handle); err != nil {
		return 0, err
	}
	s.refCount[handle]++
	return s.refCount[handle], nil
}

// DecRef decrements handle's reference count. When it reaches zero the slot
// is marked free and becomes eligible for reclamation at the next Compact.
func (s *Store) DecRef(handle PointHandle) (uint32, error) {
	if err := s.checkLive(handle); err != nil {
		return 0, err
	}
	s.refCount[handle]--
	if s.refCount[handle] == 0 {
		s.locationList[handle] = -1
		s.freeHandles = append(s.freeHandles, handle)
	}
	return s.refCount[handle], nil
}

func (s *Store) checkLive(handle PointHandle) error {
	if int(handle) >= int(s.nextHandle) || s.locationList[handle] < 0 {
		return errors.Wrapf(rcf.ErrPointNotFound, "handle %d is not live", handle)
	}
	return nil
}

// Get returns the dim floats stored at handle, unrotated to natural
// (oldest-to-newest) shingle order when rotation is enabled. The returned
// slice aliases the backing array only in the no-rotation case: callers must
// not mutate it, and it is invalidated by the next Compact or Admit-triggered
// growth.
func (s *Store) Get(handle PointHandle) (rcf.Point, error) {
	if err := s.checkLive(handle); err != nil {
		return nil, err
	}
	offset := int(s.locationList[handle]) * s.dim
	raw := s.store[offset : offset+s.dim]
	rotation := s.rotationOffsets[handle]
	if !s.rotationEnabled || rotation == 0 {
		return raw, nil
	}
	unrotated := make(rcf.Point, s.dim)
	for i := 0; i < s.dim; i++ {
		unrotated[i] = raw[(rotation+i)%s.dim]
	}
	return unrotated, nil
}

// normalizeRotation rewrites every live rotated point and the live shingle
// buffer into natural order, resetting the rotation cursor to 0. Persisted
// State carries no per-handle rotation offset, so ToState calls this first:
// on the wire every point is natural order, and rotation resumes fresh from
// offset 0 after ToModel.
func (s *Store) normalizeRotation() {
	if !s.rotationEnabled {
		return
	}
	for h := PointHandle(0); h < s.nextHandle; h++ {
		rotation := s.rotationOffsets[h]
		if s.locationList[h] < 0 || rotation == 0 {
			continue
		}
		slot := int(s.locationList[h]) * s.dim
		raw := s.store[slot : slot+s.dim]
		rotated := make([]float64, s.dim)
		copy(rotated, raw)
		for i := 0; i < s.dim; i++ {
			raw[i] = rotated[(rotation+i)%s.dim]
		}
		s.rotationOffsets[h] = 0
	}
	if s.rotationCursor != 0 && s.haveShingle {
		natural := make([]float64, s.dim)
		for i := 0; i < s.dim; i++ {
			natural[i] = s.knownShingle[(s.rotationCursor+i)%s.dim]
		}
		s.knownShingle = natural
	}
	s.rotationCursor = 0
}

// RefCount returns handle's current reference count (0 if free or never
// allocated).
func (s *Store) RefCount(handle PointHandle) uint32 {
	if int(handle) >= int(s.nextHandle) {
		return 0
	}
	return s.refCount[handle]
}

// Compact collapses free interior holes in the backing array, preserving
// the relative order of live points in the array and their handle values
// (only their physical offsets change). It must not be called while a tree
// traversal is live on this store.
func (s *Store) Compact() {
	if s.directLocationMap {
		return
	}
	live := make([]PointHandle, 0, s.nextHandle)
	for h := PointHandle(0); h < s.nextHandle; h++ {
		if s.locationList[h] >= 0 {
			live = append(live, h)
		}
	}
	sort.Slice(live, func(i, j int) bool { return s.locationList[live[i]] < s.locationList[live[j]] })
	for write, h := range live {
		readOffset := int(s.locationList[h]) * s.dim
		writeOffset := write * s.dim
		if readOffset != writeOffset {
			copy(s.store[writeOffset:writeOffset+s.dim], s.store[readOffset:readOffset+s.dim])
		}
		s.locationList[h] = int64(write)
	}
	s.store = s.store[:len(live)*s.dim]
	s.startOfFreeSegment = len(live)
}

// ValidPrefix returns the smallest k such that every handle >= k is free;
// used to truncate serialized arrays to their live prefix.
func (s *Store) ValidPrefix() int {
	k := int(s.nextHandle)
	for k > 0 && s.locationList[k-1] < 0 {
		k--
	}
	return k
}
