package simview

import "github.com/hajimehoshi/ebiten/v2"

// PressSender is the outbound half of the feed connection, as seen by the
// input bridge. Open reports whether the channel is ready for writes.
type PressSender interface {
	Open() bool
	SendButtonPress(dir Direction, pressed bool) error
}

// keyTable maps movement keys to wire directions. W and S are swapped on
// purpose: world Y grows upward while screen Y grows downward, so the key
// that looks like "up" on screen is "down" to the simulation.
var keyTable = map[ebiten.Key]Direction{
	ebiten.KeyW: DirectionDown,
	ebiten.KeyS: DirectionUp,
	ebiten.KeyA: DirectionLeft,
	ebiten.KeyD: DirectionRight,
}

// DirectionForKey returns the wire direction for a key, if it is in the
// movement table.
func DirectionForKey(key ebiten.Key) (Direction, bool) {
	dir, ok := keyTable[key]
	return dir, ok
}

// InputBridge turns discrete key events into directional intents on the
// outbound channel. Keys outside the table are ignored. While the channel is
// not open, intents are silently dropped with no queue and no retry; the
// simulation simply does not hear about presses made while disconnected.
type InputBridge struct {
	sender PressSender
}

// NewInputBridge creates a bridge writing to the given sender.
func NewInputBridge(sender PressSender) *InputBridge {
	return &InputBridge{sender: sender}
}

// KeyDown emits a pressed intent for a movement key.
func (b *InputBridge) KeyDown(key ebiten.Key) {
	b.emit(key, true)
}

// KeyUp emits a released intent for a movement key.
func (b *InputBridge) KeyUp(key ebiten.Key) {
	b.emit(key, false)
}

func (b *InputBridge) emit(key ebiten.Key, pressed bool) {
	dir, ok := keyTable[key]
	if !ok {
		return
	}
	if !b.sender.Open() {
		return
	}
	// A failed write is equivalent to a closed channel: the press is lost
	// and the worst case is a stale view, never an error to the caller.
	_ = b.sender.SendButtonPress(dir, pressed)
}
