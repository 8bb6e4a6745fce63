// Package simview is a live viewer for a streaming 2D space simulation,
// built on [Ebitengine].
//
// A feed server steps the simulation and pushes position snapshots over a
// websocket at a fixed cadence; simview renders them on a pannable,
// zoomable surface and relays keyboard steering back to the feed.
//
// # Quick start
//
// Connect a [Client] to a feed, hand it to a [Game], and run:
//
//	logger := log.New(os.Stderr)
//	client := simview.NewClient("ws://localhost:5000/ws", logger)
//	client.Start(ctx)
//	defer client.Close()
//
//	game := simview.NewGame(client, logger)
//	ebiten.SetWindowSize(1020, 760)
//	ebiten.RunGame(game)
//
// # View transform
//
// [ViewState] maps between world and screen coordinates. The world origin
// sits at the center of the drawing surface, offset by a pan origin that is
// stored in world units and applied at draw scale:
//
//	screen = canvas/2 + (origin + world) * scale
//
// [ViewState.ZoomAt] rescales about an arbitrary screen point so the world
// position under the cursor stays put, and [DragSession] turns pointer
// movement into origin offsets. All view operations return new values; the
// receiver is never mutated, so a frame renders from a consistent view even
// while input is being applied.
//
// # Feed protocol
//
// The feed speaks JSON envelopes: a one-time {"user_id": ...} handshake
// binding the session, then "update_step" snapshots carrying object
// positions. The viewer answers with "button_press" intents for WASD
// steering. [DecodeMessage] and [EncodeButtonPress] implement the wire
// forms; [Reconciler] folds snapshot bursts into stable object state.
//
// The simview/feed package is a reference feed server backed by the
// simview/sim engine, used by the simfeed command and the package tests.
//
// [Ebitengine]: https://ebitengine.org
package simview
