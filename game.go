package simview

import (
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// panelWidth is the fixed chrome on the right edge; the canvas the
	// transform engine sees is the window minus this strip.
	panelWidth = 220.0

	// minDrawRadius keeps far-zoomed objects visible as a dot.
	minDrawRadius = 1.5

	recenterDuration = 0.4 // seconds

	markerSize = 6.0
)

var (
	objectColor = color.RGBA{R: 0xe8, G: 0xc5, B: 0x4a, A: 0xff}
	markerColor = color.RGBA{R: 0x4a, G: 0xb0, B: 0xe8, A: 0xff}
	clearColor  = color.RGBA{R: 0x10, G: 0x10, B: 0x17, A: 0xff}
)

// Feed is the connection as the game sees it: an ordered inbound message
// stream plus the outbound press channel.
type Feed interface {
	PressSender
	Messages() <-chan InboundMessage
}

// Game is the ebiten wiring around the core: it drains the feed into the
// reconciler, routes pointer/wheel/key events into the drag controller,
// transform engine, and input bridge, and composes frames for drawing.
//
// All state mutation happens inside Update on the host's frame loop; the only
// other goroutine (the client's read loop) hands off through a channel.
type Game struct {
	feed   Feed
	bridge *InputBridge
	log    *log.Logger

	view     ViewState
	drag     DragSession
	recon    Reconciler
	recenter *Recenter

	canvas    CanvasSize
	sessionID string

	// OnSession is invoked once when the feed handshake delivers the
	// session id, before any update batches are applied. Used by the host
	// to launch a scenario for this session.
	OnSession func(userID string)

	hud           hud
	cursorWasOver bool
}

// NewGame creates the game around a feed connection.
func NewGame(feed Feed, logger *log.Logger) *Game {
	g := &Game{
		feed: feed,
		log:  logger,
		view: NewViewState(),
	}
	g.bridge = NewInputBridge(feed)
	return g
}

// View returns the current viewport transform.
func (g *Game) View() ViewState {
	return g.view
}

// SessionID returns the id assigned by the feed handshake, or "".
func (g *Game) SessionID() string {
	return g.sessionID
}

// SetOrigin is the configurator hook: an external collaborator may set the
// pan origin directly, bypassing the drag controller, by presenting the
// current session id. Writes for any other session are ignored.
func (g *Game) SetOrigin(sessionID string, x, y float64) bool {
	if sessionID == "" || sessionID != g.sessionID {
		return false
	}
	g.view.OriginX = x
	g.view.OriginY = y
	g.recenter = nil
	return true
}

// Update implements ebiten.Game. Events are processed in delivery order; a
// burst of wheel events applies sequentially, each seeing the previous
// event's output as its input.
func (g *Game) Update() error {
	g.drainFeed()
	g.handleKeys()
	g.handlePointer()
	g.handleWheel()

	if g.recenter != nil {
		var done bool
		g.view, done = g.recenter.Update(g.view, 1.0/float32(ebiten.TPS()))
		if done {
			g.recenter = nil
		}
	}
	return nil
}

// drainFeed applies every message the read loop queued since last frame.
func (g *Game) drainFeed() {
	for {
		select {
		case msg := <-g.feed.Messages():
			g.handleMessage(msg)
		default:
			return
		}
	}
}

// handleMessage applies one decoded feed message to game state.
func (g *Game) handleMessage(msg InboundMessage) {
	if msg.UserID != "" && g.sessionID == "" {
		g.sessionID = msg.UserID
		g.log.Info("session established", "user_id", g.sessionID)
		if g.OnSession != nil {
			g.OnSession(g.sessionID)
		}
	}
	if msg.Event == EventUpdateStep {
		changed, _ := g.recon.Accept(msg.Objects)
		_ = changed // unchanged batches keep the previous slice; Draw reuses it as-is
	}
}

// handleKeys forwards movement key transitions to the input bridge.
func (g *Game) handleKeys() {
	for key := range keyTable {
		if inpututil.IsKeyJustPressed(key) {
			g.bridge.KeyDown(key)
		}
		if inpututil.IsKeyJustReleased(key) {
			g.bridge.KeyUp(key)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.recenter = NewRecenter(g.view, 0, 0, recenterDuration)
	}
}

// handlePointer runs the drag state machine: down over the render surface
// begins a session, move pans, up or leaving the surface ends it.
func (g *Game) handlePointer() {
	mx, my := ebiten.CursorPosition()
	cursor := ScreenPoint{X: float64(mx), Y: float64(my)}
	over := g.surfaceContains(cursor)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		// Only a press on the render surface itself starts a pan; the
		// panel strip is chrome, not surface.
		if over {
			g.drag.Begin(cursor, g.view)
			g.recenter = nil
		}
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && g.drag.Active():
		if !over && g.cursorWasOver {
			g.drag.End()
		} else {
			g.view = g.drag.Move(cursor, g.view)
		}
	case g.drag.Active():
		g.drag.End()
	}
	g.cursorWasOver = over
}

// handleWheel applies one zoom step per wheel event, anchored at the cursor.
func (g *Game) handleWheel() {
	_, wheelY := ebiten.Wheel()
	if wheelY == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	cursor := ScreenPoint{X: float64(mx), Y: float64(my)}
	if !g.surfaceContains(cursor) {
		return
	}
	g.view = g.view.ZoomAt(cursor, g.canvas, wheelY)
	g.recenter = nil
}

// surfaceContains reports whether a screen point is on the render surface
// (inside the canvas, outside the panel chrome).
func (g *Game) surfaceContains(p ScreenPoint) bool {
	return p.X >= 0 && p.X < g.canvas.Width && p.Y >= 0 && p.Y < g.canvas.Height
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)

	frame := Compose(g.view, g.canvas, g.recon.State())

	// Objects are positioned by the container transform: translate by the
	// composed origin, scale world units to pixels. Radii scale too, with a
	// floor so distant objects stay visible.
	for _, obj := range frame.Objects {
		sx := float32(frame.OriginScreen.X + obj.X*frame.Scale)
		sy := float32(frame.OriginScreen.Y + obj.Y*frame.Scale)
		r := float32(obj.Radius * frame.Scale)
		if r < minDrawRadius {
			r = minDrawRadius
		}
		vector.DrawFilledCircle(screen, sx, sy, r, objectColor, true)
	}

	g.drawOriginMarker(screen, frame)
	g.hud.draw(screen, g)
}

// drawOriginMarker draws a crosshair at the world origin.
func (g *Game) drawOriginMarker(screen *ebiten.Image, frame RenderFrame) {
	x := float32(frame.OriginScreen.X)
	y := float32(frame.OriginScreen.Y)
	vector.StrokeLine(screen, x-markerSize, y, x+markerSize, y, 1, markerColor, true)
	vector.StrokeLine(screen, x, y-markerSize, x, y+markerSize, 1, markerColor, true)
}

// Layout implements ebiten.Game. The canvas handed to the transform engine is
// the window minus the fixed panel chrome. Ebiten delivers layout on the
// frame boundary, so rapid resize bursts coalesce to one recomputation.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := float64(outsideWidth) - panelWidth
	if w < 1 {
		w = 1
	}
	g.canvas = CanvasSize{Width: w, Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}
