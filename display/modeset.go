package display

import (
	"fmt"
	"io"

	"github.com/google/btree"
)

type modeEntry struct {
	idx  uint32
	mode ModeInfo
}

func modeEntryLess(a, b modeEntry) bool { return a.idx < b.idx }

// ModeSet maps mode indices to modes and iterates in insertion order.
// Snapshots taken with Clone share storage until either side is modified.
//
// A ModeSet is not safe for concurrent mutation.
type ModeSet struct {
	tree *btree.BTreeG[modeEntry]
	next uint32
}

func NewModeSet() *ModeSet {
	return &ModeSet{tree: btree.NewG(8, modeEntryLess)}
}

// Add appends m and returns its index.
func (s *ModeSet) Add(m ModeInfo) uint32 {
	if s.tree == nil {
		s.tree = btree.NewG(8, modeEntryLess)
	}
	idx := s.next
	s.next++
	s.tree.ReplaceOrInsert(modeEntry{idx: idx, mode: m})
	return idx
}

func (s *ModeSet) Get(idx uint32) (ModeInfo, bool) {
	if s == nil || s.tree == nil {
		return ModeInfo{}, false
	}
	e, ok := s.tree.Get(modeEntry{idx: idx})
	return e.mode, ok
}

func (s *ModeSet) Len() int {
	if s == nil || s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Ascend calls fn in insertion order until it returns false.
func (s *ModeSet) Ascend(fn func(idx uint32, m ModeInfo) bool) {
	if s == nil || s.tree == nil || fn == nil {
		return
	}
	s.tree.Ascend(func(e modeEntry) bool { return fn(e.idx, e.mode) })
}

// Find returns the first mode in insertion order accepted by match.
func (s *ModeSet) Find(match func(ModeInfo) bool) (uint32, ModeInfo, bool) {
	var (
		foundIdx  uint32
		foundMode ModeInfo
		found     bool
	)
	s.Ascend(func(idx uint32, m ModeInfo) bool {
		if match(m) {
			foundIdx, foundMode, found = idx, m, true
			return false
		}
		return true
	})
	return foundIdx, foundMode, found
}

func (s *ModeSet) Modes() []ModeInfo {
	modes := make([]ModeInfo, 0, s.Len())
	s.Ascend(func(_ uint32, m ModeInfo) bool {
		modes = append(modes, m)
		return true
	})
	return modes
}

// Clone returns an independent snapshot.
func (s *ModeSet) Clone() *ModeSet {
	if s == nil || s.tree == nil {
		return NewModeSet()
	}
	return &ModeSet{tree: s.tree.Clone(), next: s.next}
}

func (s *ModeSet) Dump(w io.Writer) {
	s.Ascend(func(idx uint32, m ModeInfo) bool {
		var scan string
		if VmodeIsInterlaced(NameToVmode(m.Name)) {
			scan = ` interlaced`
		}
		fmt.Fprintf(w, "  [%2d] %s%s\n", idx, m, scan)
		return true
	})
}
