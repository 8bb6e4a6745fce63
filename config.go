package simview

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the viewer configuration, loaded from a TOML file. Zero fields
// fall back to defaults; flags may override the file.
type Config struct {
	// Server is the feed's host:port. The websocket and HTTP endpoints are
	// derived from it.
	Server string `toml:"server"`

	Window struct {
		Width  int `toml:"width"`
		Height int `toml:"height"`
	} `toml:"window"`

	// Scenario, when present, is launched for the session as soon as the
	// feed handshake arrives.
	Scenario *Scenario `toml:"scenario"`
}

// Scenario describes a simulation to launch. Pointer fields left nil take
// the feed's defaults.
type Scenario struct {
	TimeDelta      *float64         `toml:"time_delta"`
	SimulationTime *float64         `toml:"simulation_time"`
	G              *float64         `toml:"g"`
	AccelRate      *float64         `toml:"acceleration_rate"`
	Elasticity     *float64         `toml:"elasticity_coefficient"`
	Collision      string           `toml:"collision"` // "traversing" or "elastic"
	Objects        []ScenarioObject `toml:"objects"`
}

// ScenarioObject is one object in a scenario file.
type ScenarioObject struct {
	Name     string  `toml:"name"`
	Mass     float64 `toml:"mass"`
	Radius   float64 `toml:"radius"`
	Position Vec2    `toml:"position"`
	Velocity Vec2    `toml:"velocity"`
	Movement string  `toml:"movement"` // "static", "ordinary", "controllable"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.Server = "localhost:5000"
	cfg.Window.Width = 1020
	cfg.Window.Height = 760
	return cfg
}

// LoadConfig reads a TOML config file and fills defaults for omitted fields.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server == "" {
		return fmt.Errorf("server must not be empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if c.Scenario != nil {
		for i, obj := range c.Scenario.Objects {
			if _, err := movementIndex(obj.Movement); err != nil {
				return fmt.Errorf("objects[%d] (%s): %w", i, obj.Name, err)
			}
		}
		if _, err := collisionIndex(c.Scenario.Collision); err != nil {
			return err
		}
	}
	return nil
}

// FeedURL is the websocket endpoint derived from Server.
func (c Config) FeedURL() string {
	return "ws://" + c.Server + "/ws"
}

// BaseURL is the HTTP endpoint root derived from Server.
func (c Config) BaseURL() string {
	return "http://" + c.Server
}

// movementIndex maps a scenario movement name to its wire enum value.
func movementIndex(name string) (int, error) {
	switch name {
	case "", "static":
		return 0, nil
	case "ordinary":
		return 1, nil
	case "controllable":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown movement %q", name)
}

// collisionIndex maps a scenario collision name to its wire enum value.
func collisionIndex(name string) (int, error) {
	switch name {
	case "traversing":
		return 0, nil
	case "", "elastic":
		return 1, nil
	}
	return 0, fmt.Errorf("unknown collision %q", name)
}

// LaunchRequest converts the scenario into the feed's launch body for the
// given session.
func (s *Scenario) LaunchRequest(userID string) LaunchRequest {
	req := LaunchRequest{
		UserID:         userID,
		TimeDelta:      s.TimeDelta,
		SimulationTime: s.SimulationTime,
		G:              s.G,
		AccelRate:      s.AccelRate,
		Elasticity:     s.Elasticity,
	}
	if s.Collision != "" {
		idx, _ := collisionIndex(s.Collision)
		req.CollisionType = &idx
	}
	for _, obj := range s.Objects {
		movement, _ := movementIndex(obj.Movement)
		req.SpaceObjects = append(req.SpaceObjects, LaunchObject{
			Name:         obj.Name,
			Mass:         obj.Mass,
			Radius:       obj.Radius,
			Position:     obj.Position,
			Velocity:     obj.Velocity,
			MovementType: movement,
		})
	}
	return req
}
