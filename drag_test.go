package simview

import "testing"

func TestDragSessionStartsIdle(t *testing.T) {
	var d DragSession
	if d.Active() {
		t.Error("zero-value session is active, want idle")
	}
}

func TestDragMoveWhileIdleIsNoop(t *testing.T) {
	var d DragSession
	v := ViewState{OriginX: 3, OriginY: 4, Scale: 1}
	next := d.Move(ScreenPoint{X: 100, Y: 100}, v)
	if next != v {
		t.Errorf("idle Move changed view to %+v", next)
	}
}

func TestDragRoundTrip(t *testing.T) {
	var d DragSession
	v := ViewState{OriginX: 10, OriginY: -20, Scale: 2.0}

	start := ScreenPoint{X: 200, Y: 150}
	d.Begin(start, v)
	if !d.Active() {
		t.Fatal("session not active after Begin")
	}

	// Dragging (dx, dy) at scale s yields originAtStart + (dx/s, dy/s).
	next := d.Move(ScreenPoint{X: start.X + 50, Y: start.Y - 30}, v)
	if !approxEqual(next.OriginX, 10+25, epsilon) || !approxEqual(next.OriginY, -20-15, epsilon) {
		t.Errorf("origin = (%f,%f), want (35,-35)", next.OriginX, next.OriginY)
	}
}

func TestDragUsesAbsoluteOffsetFromStart(t *testing.T) {
	var d DragSession
	v := ViewState{Scale: 1}

	d.Begin(ScreenPoint{X: 0, Y: 0}, v)
	// Many intermediate moves must not drift: only the final pointer
	// position determines the origin.
	for i := 1; i <= 1000; i++ {
		v2 := d.Move(ScreenPoint{X: float64(i) * 0.1, Y: 0}, v)
		_ = v2
	}
	final := d.Move(ScreenPoint{X: 100, Y: 0}, v)
	if !approxEqual(final.OriginX, 100, epsilon) {
		t.Errorf("origin after 1000 moves = %f, want exactly 100", final.OriginX)
	}
}

func TestDragEndDiscardsSession(t *testing.T) {
	var d DragSession
	v := NewViewState()

	d.Begin(ScreenPoint{X: 10, Y: 10}, v)
	d.End()
	if d.Active() {
		t.Error("session still active after End")
	}

	next := d.Move(ScreenPoint{X: 500, Y: 500}, v)
	if next != v {
		t.Errorf("Move after End changed view to %+v", next)
	}
}

func TestDragSecondSessionIsIndependent(t *testing.T) {
	var d DragSession
	v := NewViewState()

	d.Begin(ScreenPoint{X: 0, Y: 0}, v)
	v = d.Move(ScreenPoint{X: 40, Y: 0}, v)
	d.End()

	// A new drag starts from the panned origin, not the original one.
	d.Begin(ScreenPoint{X: 0, Y: 0}, v)
	v = d.Move(ScreenPoint{X: 0, Y: 10}, v)
	if !approxEqual(v.OriginX, 40, epsilon) || !approxEqual(v.OriginY, 10, epsilon) {
		t.Errorf("origin = (%f,%f), want (40,10)", v.OriginX, v.OriginY)
	}
}
