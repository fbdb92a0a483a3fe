package timeline

// Pane identifies one side of the two-pane view.
type Pane int

const (
	PaneInfo     Pane = iota // left: titles, codes, assignees
	PaneTimeline             // right: header and bars
)

// Other returns the opposite pane.
func (p Pane) Other() Pane {
	if p == PaneInfo {
		return PaneTimeline
	}
	return PaneInfo
}

func (p Pane) String() string {
	if p == PaneInfo {
		return "info"
	}
	return "timeline"
}

// SyncState is the synchronizer's state.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncSyncing
)

// ScrollSync keeps the vertical scroll position of both panes identical.
//
// A scroll event from one pane is copied to the other pane in the same
// call. The write to the other pane goes through apply; if that write makes
// the other pane raise its own scroll event while the copy is in progress,
// the event arrives in SyncSyncing and is absorbed, so the originating
// pane is never rewritten. The timeline pane's horizontal offset is kept
// separately and never mirrored.
type ScrollSync struct {
	tops    [2]int
	scrollX int
	state   SyncState
	apply   func(Pane, int)
}

// NewScrollSync returns a synchronizer that calls apply when it writes a
// pane's vertical position. apply may be nil.
func NewScrollSync(apply func(pane Pane, top int)) *ScrollSync {
	return &ScrollSync{apply: apply}
}

// State returns the current state.
func (s *ScrollSync) State() SyncState {
	return s.state
}

// Top returns the vertical position of pane.
func (s *ScrollSync) Top(p Pane) int {
	return s.tops[p]
}

// OnScroll records a vertical scroll event from pane and mirrors it to the
// other pane. It returns false when the event was a re-entrant echo of a
// write the synchronizer itself was making.
func (s *ScrollSync) OnScroll(from Pane, top int) bool {
	if s.state == SyncSyncing {
		return false
	}
	s.state = SyncSyncing
	defer func() { s.state = SyncIdle }()

	s.tops[from] = top
	other := from.Other()
	if s.tops[other] != top {
		s.tops[other] = top
		if s.apply != nil {
			s.apply(other, top)
		}
	}
	return true
}

// ScrollBy moves pane by delta rows, clamped to [0, maxTop], and mirrors
// the result. It returns the new position.
func (s *ScrollSync) ScrollBy(from Pane, delta, maxTop int) int {
	top := clampInt(s.tops[from]+delta, 0, maxTop)
	s.OnScroll(from, top)
	return s.tops[from]
}

// Clamp pulls both panes back into [0, maxTop], e.g. after rows collapse.
func (s *ScrollSync) Clamp(maxTop int) {
	top := clampInt(s.tops[PaneInfo], 0, maxTop)
	if top != s.tops[PaneInfo] || top != s.tops[PaneTimeline] {
		s.OnScroll(PaneInfo, top)
	}
}

// ScrollX returns the timeline pane's horizontal offset.
func (s *ScrollSync) ScrollX() int {
	return s.scrollX
}

// SetScrollX sets the timeline pane's horizontal offset, clamped to
// [0, maxX]. The info pane is unaffected.
func (s *ScrollSync) SetScrollX(x, maxX int) {
	s.scrollX = clampInt(x, 0, maxX)
}

// ScrollXBy shifts the horizontal offset by delta.
func (s *ScrollSync) ScrollXBy(delta, maxX int) {
	s.SetScrollX(s.scrollX+delta, maxX)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
