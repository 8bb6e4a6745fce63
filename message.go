package simview

import (
	"encoding/json"
	"fmt"
)

// Wire event names shared by the viewer and the feed.
const (
	EventUpdateStep  = "update_step"
	EventButtonPress = "button_press"
)

// InboundMessage is one decoded message from the feed. UserID is set on the
// session handshake; Objects is set for update_step batches. A message
// carries one or the other.
type InboundMessage struct {
	UserID  string
	Event   string
	Objects []SimObject
}

// envelope is the raw shape of every feed message.
type envelope struct {
	UserID string          `json:"user_id,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// wirePosition is one object position on the wire. X and Y are required;
// pointer fields distinguish a missing coordinate from a zero one.
type wirePosition struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Radius float64  `json:"radius"`
}

// DecodeMessage parses a raw feed payload. Unparsable payloads and entries
// with missing fields return an error; callers drop the message with a
// diagnostic and leave existing state untouched.
func DecodeMessage(raw []byte) (InboundMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return InboundMessage{}, fmt.Errorf("decode message: %w", err)
	}

	msg := InboundMessage{UserID: env.UserID, Event: env.Event}
	if env.Event != EventUpdateStep {
		return msg, nil
	}

	objects, err := decodeUpdateStep(env.Data)
	if err != nil {
		return InboundMessage{}, err
	}
	msg.Objects = objects
	return msg, nil
}

// decodeUpdateStep flattens the update_step data array. Each element is a
// single-key object mapping an object label to its position; the label is
// discarded and the value taken, ordering comes from the array position.
// This map-to-value normalization is required, not optional: the feed keys
// each entry by its stringified index.
func decodeUpdateStep(raw json.RawMessage) ([]SimObject, error) {
	if raw == nil {
		return nil, fmt.Errorf("decode update_step: missing data")
	}
	var entries []map[string]wirePosition
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode update_step: %w", err)
	}

	objects := make([]SimObject, 0, len(entries))
	for i, entry := range entries {
		if len(entry) == 0 {
			return nil, fmt.Errorf("decode update_step: empty entry at index %d", i)
		}
		var pos wirePosition
		for _, v := range entry {
			pos = v
			break
		}
		if pos.X == nil || pos.Y == nil {
			return nil, fmt.Errorf("decode update_step: entry %d missing x/y", i)
		}
		objects = append(objects, SimObject{ID: i, X: *pos.X, Y: *pos.Y, Radius: pos.Radius})
	}
	return objects, nil
}

// buttonPressData is the payload of an outbound button_press message.
type buttonPressData struct {
	Direction Direction `json:"direction"`
	IsPressed bool      `json:"is_pressed"`
}

// outboundEnvelope wraps an outbound payload in the feed's event envelope.
type outboundEnvelope struct {
	Event string          `json:"event"`
	Data  buttonPressData `json:"data"`
}

// EncodeButtonPress builds the wire form of a directional intent:
//
//	{"event":"button_press","data":{"direction":"up","is_pressed":true}}
func EncodeButtonPress(dir Direction, pressed bool) ([]byte, error) {
	return json.Marshal(outboundEnvelope{
		Event: EventButtonPress,
		Data:  buttonPressData{Direction: dir, IsPressed: pressed},
	})
}

// Vec2 is an {x, y} pair used in launch requests and scenario files.
type Vec2 struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// LaunchObject describes one object in a launch request.
type LaunchObject struct {
	Name         string  `json:"name"`
	Mass         float64 `json:"mass"`
	Radius       float64 `json:"radius"`
	Position     Vec2    `json:"position"`
	Velocity     Vec2    `json:"velocity"`
	MovementType int     `json:"movement_type"`
}

// LaunchRequest is the body of POST /launch_simulation. Pointer fields are
// optional; the feed fills in simulation defaults for any left nil.
type LaunchRequest struct {
	UserID         string         `json:"user_id"`
	TimeDelta      *float64       `json:"time_delta,omitempty"`
	SimulationTime *float64       `json:"simulation_time,omitempty"`
	G              *float64       `json:"G,omitempty"`
	AccelRate      *float64       `json:"acceleration_rate,omitempty"`
	Elasticity     *float64       `json:"elasticity_coefficient,omitempty"`
	CollisionType  *int           `json:"collision_type,omitempty"`
	SpaceObjects   []LaunchObject `json:"space_objects"`
}

// DeleteRequest is the body of POST /delete_simulation.
type DeleteRequest struct {
	UserID string `json:"user_id"`
}
