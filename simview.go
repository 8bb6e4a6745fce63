package simview

// ScreenPoint is a point in screen space: the pixel coordinate system of the
// render surface, origin at the top-left, Y increasing downward.
type ScreenPoint struct {
	X, Y float64
}

// WorldPoint is a point in world space: the coordinate system simulation
// object positions are defined in, independent of the viewport.
//
// ScreenPoint and WorldPoint are deliberately distinct types; conversion
// happens only through ViewState operations, never by assignment.
type WorldPoint struct {
	X, Y float64
}

// CanvasSize is the size of the render surface in pixels. It is supplied by
// the host (viewport dimensions minus fixed chrome); the core never queries
// window state directly.
type CanvasSize struct {
	Width, Height float64
}

// Center returns the screen-space center of the canvas.
func (c CanvasSize) Center() ScreenPoint {
	return ScreenPoint{X: c.Width / 2, Y: c.Height / 2}
}

// Direction is one of the four movement intents forwarded to the feed.
type Direction string

// Direction values match the feed's wire protocol.
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// SimObject is one tracked object from the feed. ID is the object's index in
// the batch it arrived in, stable within a frame but not a persistent identity.
type SimObject struct {
	ID     int
	X, Y   float64
	Radius float64
}
