package simview

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestViewStateDefaults(t *testing.T) {
	v := NewViewState()
	if v.Scale != 1.0 {
		t.Errorf("Scale = %f, want 1.0", v.Scale)
	}
	if v.OriginX != 0 || v.OriginY != 0 {
		t.Errorf("origin = (%f,%f), want (0,0)", v.OriginX, v.OriginY)
	}
}

func TestWorldToScreenIdentity(t *testing.T) {
	v := NewViewState()
	canvas := CanvasSize{Width: 800, Height: 600}
	s := v.WorldToScreen(WorldPoint{X: 0, Y: 0}, canvas)
	// World origin under identity view maps to the canvas center.
	if !approxEqual(s.X, 400, epsilon) || !approxEqual(s.Y, 300, epsilon) {
		t.Errorf("WorldToScreen(0,0) = (%f,%f), want (400,300)", s.X, s.Y)
	}
}

func TestWorldToScreenScalesDistances(t *testing.T) {
	v := NewViewState()
	v.Scale = 2.0
	canvas := CanvasSize{Width: 800, Height: 600}

	s0 := v.WorldToScreen(WorldPoint{X: 0, Y: 0}, canvas)
	s1 := v.WorldToScreen(WorldPoint{X: 1, Y: 0}, canvas)
	if !approxEqual(s1.X-s0.X, 2.0, epsilon) {
		t.Errorf("scale 2: 1 world unit = %f screen pixels, want 2.0", s1.X-s0.X)
	}
}

func TestWorldToScreenAppliesOriginScaled(t *testing.T) {
	v := NewViewState()
	v.OriginX = 10
	v.OriginY = -5
	v.Scale = 3.0
	canvas := CanvasSize{Width: 800, Height: 600}

	s := v.WorldToScreen(WorldPoint{X: 0, Y: 0}, canvas)
	// Pan is stored in world units and multiplied by scale at draw time.
	if !approxEqual(s.X, 400+30, epsilon) || !approxEqual(s.Y, 300-15, epsilon) {
		t.Errorf("WorldToScreen(0,0) = (%f,%f), want (430,285)", s.X, s.Y)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	v := ViewState{OriginX: 42, OriginY: -17, Scale: 1.5}
	canvas := CanvasSize{Width: 1024, Height: 768}

	orig := WorldPoint{X: 123, Y: -456}
	s := v.WorldToScreen(orig, canvas)
	w := v.ScreenToWorld(s, canvas)

	if !approxEqual(w.X, orig.X, 1e-6) || !approxEqual(w.Y, orig.Y, 1e-6) {
		t.Errorf("roundtrip: got (%f,%f), want (%f,%f)", w.X, w.Y, orig.X, orig.Y)
	}
}

func TestZoomAtKeepsCursorPointFixed(t *testing.T) {
	views := []ViewState{
		{Scale: 1},
		{OriginX: 100, OriginY: -50, Scale: 0.5},
		{OriginX: -3.25, OriginY: 7.5, Scale: 2.2},
	}
	points := []ScreenPoint{
		{X: 0, Y: 0},
		{X: 400, Y: 300},
		{X: 799, Y: 1},
		{X: 123.4, Y: 567.8},
	}
	canvas := CanvasSize{Width: 800, Height: 600}

	for _, v := range views {
		for _, p := range points {
			for _, delta := range []float64{1, -1} {
				before := v.ScreenToWorld(p, canvas)
				next := v.ZoomAt(p, canvas, delta)
				after := next.ScreenToWorld(p, canvas)
				if !approxEqual(after.X, before.X, 1e-6) || !approxEqual(after.Y, before.Y, 1e-6) {
					t.Errorf("ZoomAt(%v, delta=%f): world under cursor moved from (%f,%f) to (%f,%f)",
						p, delta, before.X, before.Y, after.X, after.Y)
				}
			}
		}
	}
}

func TestZoomAtCenterIsFixedPoint(t *testing.T) {
	v := NewViewState()
	canvas := CanvasSize{Width: 800, Height: 600}

	next := v.ZoomAt(ScreenPoint{X: 400, Y: 300}, canvas, 1)
	if !approxEqual(next.Scale, 1.1, epsilon) {
		t.Errorf("Scale = %f, want 1.1", next.Scale)
	}
	// The canvas center is the anchor of the untransformed view, so a
	// center-anchored zoom leaves the origin untouched.
	if !approxEqual(next.OriginX, 0, epsilon) || !approxEqual(next.OriginY, 0, epsilon) {
		t.Errorf("origin = (%f,%f), want (0,0)", next.OriginX, next.OriginY)
	}
}

func TestZoomAtCornerShiftsView(t *testing.T) {
	v := NewViewState()
	canvas := CanvasSize{Width: 800, Height: 600}

	next := v.ZoomAt(ScreenPoint{X: 0, Y: 0}, canvas, 1)
	if !approxEqual(next.Scale, 1.1, epsilon) {
		t.Errorf("Scale = %f, want 1.1", next.Scale)
	}
	// Zooming in at the top-left corner pulls the viewport-center world
	// point (the negated origin) toward negative coordinates on both axes.
	if next.OriginX <= 0 || next.OriginY <= 0 {
		t.Errorf("origin = (%f,%f), want both positive", next.OriginX, next.OriginY)
	}
	if -next.OriginX >= 0 || -next.OriginY >= 0 {
		t.Errorf("center display = (%f,%f), want both negative", -next.OriginX, -next.OriginY)
	}
}

func TestZoomOutUsesSmallerFactor(t *testing.T) {
	v := NewViewState()
	canvas := CanvasSize{Width: 800, Height: 600}

	next := v.ZoomAt(ScreenPoint{X: 400, Y: 300}, canvas, -1)
	if !approxEqual(next.Scale, 0.9, epsilon) {
		t.Errorf("Scale = %f, want 0.9", next.Scale)
	}
}

func TestZoomScaleStaysClamped(t *testing.T) {
	canvas := CanvasSize{Width: 800, Height: 600}
	p := ScreenPoint{X: 17, Y: 212}

	v := NewViewState()
	for i := 0; i < 500; i++ {
		v = v.ZoomAt(p, canvas, 1)
		if v.Scale < ScaleMin || v.Scale > ScaleMax {
			t.Fatalf("after %d zoom-ins: Scale = %g out of bounds", i+1, v.Scale)
		}
	}
	if !approxEqual(v.Scale, ScaleMax, epsilon) {
		t.Errorf("Scale = %g, want clamped to %g", v.Scale, ScaleMax)
	}

	v = NewViewState()
	for i := 0; i < 500; i++ {
		v = v.ZoomAt(p, canvas, -1)
		if v.Scale < ScaleMin || v.Scale > ScaleMax {
			t.Fatalf("after %d zoom-outs: Scale = %g out of bounds", i+1, v.Scale)
		}
	}
	if !approxEqual(v.Scale, ScaleMin, 1e-12) {
		t.Errorf("Scale = %g, want clamped to %g", v.Scale, ScaleMin)
	}
}

func TestPanByDividesDeltaByScale(t *testing.T) {
	v := ViewState{OriginX: 5, OriginY: -2, Scale: 2.0}
	next := v.PanBy(10, -4)
	if !approxEqual(next.OriginX, 10, epsilon) || !approxEqual(next.OriginY, -4, epsilon) {
		t.Errorf("origin = (%f,%f), want (10,-4)", next.OriginX, next.OriginY)
	}
	// Input view is untouched.
	if v.OriginX != 5 || v.OriginY != -2 {
		t.Errorf("PanBy mutated its receiver: %+v", v)
	}
}

func TestRecenterReachesTarget(t *testing.T) {
	v := ViewState{OriginX: 100, OriginY: -60, Scale: 1}
	r := NewRecenter(v, 0, 0, 0.5)

	var done bool
	for i := 0; i < 60 && !done; i++ {
		v, done = r.Update(v, 1.0/60.0)
	}
	if !done {
		t.Fatal("recenter never finished")
	}
	if !approxEqual(v.OriginX, 0, 0.5) || !approxEqual(v.OriginY, 0, 0.5) {
		t.Errorf("origin after recenter = (%f,%f), want ~(0,0)", v.OriginX, v.OriginY)
	}
}
