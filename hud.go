package simview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var panelColor = color.RGBA{R: 0x1c, G: 0x1c, B: 0x26, A: 0xff}

// hud is the fixed panel strip on the right edge: connection state, session,
// viewport readouts, and FPS/TPS. Rendered with the debug text facility;
// it is chrome, not part of the render surface.
type hud struct {
	panel *ebiten.Image
}

func (h *hud) draw(screen *ebiten.Image, g *Game) {
	w := int(panelWidth)
	hgt := screen.Bounds().Dy()
	if h.panel == nil || h.panel.Bounds().Dx() != w || h.panel.Bounds().Dy() != hgt {
		h.panel = ebiten.NewImage(w, hgt)
	}
	h.panel.Fill(panelColor)

	state := "connecting"
	if g.feed.Open() {
		state = "connected"
	}
	session := g.sessionID
	if session == "" {
		session = "-"
	}
	center := CenterWorld(g.view)

	ebitenutil.DebugPrintAt(h.panel, fmt.Sprintf(
		"feed: %s\nsession: %s\n\nobjects: %d\nscale: %.4g\ncenter: (%.2f, %.2f)\n\nFPS: %.1f\nTPS: %.1f\n\ndrag to pan\nwheel to zoom\nwasd to steer\nhome to recenter",
		state, session,
		len(g.recon.State()),
		g.view.Scale, center.X, center.Y,
		ebiten.ActualFPS(), ebiten.ActualTPS(),
	), 8, 8)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(g.canvas.Width, 0)
	screen.DrawImage(h.panel, op)
}
