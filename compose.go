package simview

// RenderFrame is the per-frame draw input: a container transform plus the
// object sequence to draw inside it. It is derived and ephemeral: recomputed
// for every accepted update, never mutated in place.
//
// Objects are drawn at their world coordinates inside a container carrying
// the pan/scale transform, so per-object screen placement is implicit; the
// composer never recomputes positions object by object.
type RenderFrame struct {
	// OriginScreen is the screen-space translation of the container:
	// canvas center plus the scaled pan offset.
	OriginScreen ScreenPoint
	// Scale is the container's uniform scale factor.
	Scale float64
	// Objects is the reconciler's current sequence, shared not copied.
	Objects []SimObject
}

// Compose combines the viewport transform with the reconciled object state.
func Compose(view ViewState, canvas CanvasSize, objects []SimObject) RenderFrame {
	return RenderFrame{
		OriginScreen: ScreenPoint{
			X: canvas.Width/2 + view.OriginX*view.Scale,
			Y: canvas.Height/2 + view.OriginY*view.Scale,
		},
		Scale:   view.Scale,
		Objects: objects,
	}
}

// CenterWorld is the world point shown at the viewport center: the negated
// pan offset. The sign flip is a display convention for the origin readout,
// not a coordinate-space change.
func CenterWorld(view ViewState) WorldPoint {
	return WorldPoint{X: -view.OriginX, Y: -view.OriginY}
}
