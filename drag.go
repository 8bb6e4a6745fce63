package simview

// DragSession interprets raw pointer events into pan edits on a ViewState.
// It is a two-state machine, Idle and Dragging, owned by the host's event
// loop; the zero value is Idle.
//
// Each move computes an absolute offset from the drag's start point rather
// than an incremental delta, so rounding error never compounds across moves.
type DragSession struct {
	startScreen   ScreenPoint
	originAtStart WorldPoint
	active        bool
}

// Active reports whether a drag is in progress.
func (d *DragSession) Active() bool {
	return d.active
}

// Begin transitions Idle -> Dragging, capturing the pointer position and the
// view origin at that instant. The caller is responsible for the surface
// guard: only pointer-downs whose target is the render surface itself start
// a pan, not ones over an overlay panel.
func (d *DragSession) Begin(at ScreenPoint, view ViewState) {
	d.startScreen = at
	d.originAtStart = WorldPoint{X: view.OriginX, Y: view.OriginY}
	d.active = true
}

// Move returns the view panned to the current pointer position. When no drag
// is active the view is returned unchanged.
func (d *DragSession) Move(at ScreenPoint, view ViewState) ViewState {
	if !d.active {
		return view
	}
	next := view
	next.OriginX = d.originAtStart.X + (at.X-d.startScreen.X)/view.Scale
	next.OriginY = d.originAtStart.Y + (at.Y-d.startScreen.Y)/view.Scale
	return next
}

// End transitions to Idle unconditionally, discarding the session. Called on
// pointer-up and on pointer-leave alike.
func (d *DragSession) End() {
	d.active = false
}
