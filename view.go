package simview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom and scale constants. A wheel step multiplies the scale by a fixed
// factor; the result is clamped so the view can never invert or collapse.
const (
	ScaleMin = 1e-6
	ScaleMax = 5.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// ViewState is the viewport transform: a pan origin in world units and a
// world-to-screen scale factor. The zero value is not valid; use NewViewState.
//
// All operations are pure: they take a ViewState by value and return the
// edited copy. Scale always stays within [ScaleMin, ScaleMax]; no operation
// can fail.
type ViewState struct {
	// OriginX and OriginY are the pan offset in world units. The offset is
	// multiplied by Scale at draw time, so panning distance on screen is
	// scale-dependent while the stored value is not.
	OriginX, OriginY float64
	// Scale is the world-to-screen distance multiplier.
	Scale float64
}

// NewViewState returns the identity view: no pan, scale 1.
func NewViewState() ViewState {
	return ViewState{Scale: 1}
}

// WorldToScreen converts a world-space point to screen space:
//
//	screen = canvas/2 + origin*scale + world*scale
//
// applied per axis. The canvas center is the anchor of the untransformed view.
func (v ViewState) WorldToScreen(w WorldPoint, canvas CanvasSize) ScreenPoint {
	return ScreenPoint{
		X: canvas.Width/2 + v.OriginX*v.Scale + w.X*v.Scale,
		Y: canvas.Height/2 + v.OriginY*v.Scale + w.Y*v.Scale,
	}
}

// ScreenToWorld converts a screen-space point to world space. It is the exact
// inverse of WorldToScreen for any valid ViewState.
func (v ViewState) ScreenToWorld(s ScreenPoint, canvas CanvasSize) WorldPoint {
	return WorldPoint{
		X: (s.X-canvas.Width/2)/v.Scale - v.OriginX,
		Y: (s.Y-canvas.Height/2)/v.Scale - v.OriginY,
	}
}

// ZoomAt applies one wheel step anchored at the given screen point: the world
// point currently under the cursor stays under the cursor after the zoom.
//
// The order is load-bearing: capture the world point under the old view,
// change the scale, then re-derive the origin so the captured point maps back
// to the same screen point. Scaling and translating independently makes the
// content visibly jump under the cursor.
func (v ViewState) ZoomAt(at ScreenPoint, canvas CanvasSize, wheelDelta float64) ViewState {
	anchor := v.ScreenToWorld(at, canvas)

	factor := zoomInFactor
	if wheelDelta < 0 {
		factor = zoomOutFactor
	}

	next := v
	next.Scale = clampScale(v.Scale * factor)
	next.OriginX = (at.X-canvas.Width/2)/next.Scale - anchor.X
	next.OriginY = (at.Y-canvas.Height/2)/next.Scale - anchor.Y
	return next
}

// PanBy translates the origin by a screen-space delta. The delta is divided
// by the current scale so apparent drag speed is the same at every zoom
// level: one pixel of cursor travel is one pixel of content travel.
func (v ViewState) PanBy(dx, dy float64) ViewState {
	next := v
	next.OriginX += dx / v.Scale
	next.OriginY += dy / v.Scale
	return next
}

// clampScale restricts a scale factor to [ScaleMin, ScaleMax].
func clampScale(s float64) float64 {
	if s < ScaleMin {
		return ScaleMin
	}
	if s > ScaleMax {
		return ScaleMax
	}
	return s
}

// Recenter animates the pan origin back to a target over a fixed duration.
// Create one with NewRecenter and advance it once per frame; any manual pan
// should discard it.
type Recenter struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// NewRecenter starts a recenter animation from the view's current origin to
// (targetX, targetY), in world units, over duration seconds.
func NewRecenter(v ViewState, targetX, targetY float64, duration float32) *Recenter {
	return &Recenter{
		tweenX: gween.New(float32(v.OriginX), float32(targetX), duration, ease.OutQuad),
		tweenY: gween.New(float32(v.OriginY), float32(targetY), duration, ease.OutQuad),
	}
}

// Update advances the animation by dt seconds and returns the view with the
// tweened origin applied. done reports that both axes have finished.
func (r *Recenter) Update(v ViewState, dt float32) (next ViewState, done bool) {
	next = v
	if !r.doneX {
		val, finished := r.tweenX.Update(dt)
		next.OriginX = float64(val)
		r.doneX = finished
	}
	if !r.doneY {
		val, finished := r.tweenY.Update(dt)
		next.OriginY = float64(val)
		r.doneY = finished
	}
	return next, r.doneX && r.doneY
}
