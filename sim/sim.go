// Package sim is the orbital simulation engine stepped by the feed server:
// point masses under pairwise gravity, optional elastic collisions, and at
// most one player-controllable object accelerated by directional input.
package sim

import (
	"errors"
	"fmt"
	"math"
)

// MovementType controls how an object participates in the simulation.
type MovementType int

const (
	// Static objects never move; they still exert gravity.
	Static MovementType = iota
	// Ordinary objects move under gravity and collisions.
	Ordinary
	// Controllable objects additionally accelerate from player input.
	// A simulation holds at most one.
	Controllable
)

// ParseMovementType validates a wire enum value.
func ParseMovementType(v int) (MovementType, error) {
	if v < int(Static) || v > int(Controllable) {
		return Static, fmt.Errorf("unknown movement type %d", v)
	}
	return MovementType(v), nil
}

// CollisionType selects the collision model.
type CollisionType int

const (
	// Traversing objects pass through each other.
	Traversing CollisionType = iota
	// Elastic objects exchange normal velocity weighted by the
	// elasticity coefficient.
	Elastic
)

// ParseCollisionType validates a wire enum value.
func ParseCollisionType(v int) (CollisionType, error) {
	if v < int(Traversing) || v > int(Elastic) {
		return Traversing, fmt.Errorf("unknown collision type %d", v)
	}
	return CollisionType(v), nil
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Object is one body in the simulation.
type Object struct {
	Name         string
	Mass         float64
	Radius       float64
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Movement     MovementType
}

// NewObject validates and creates a body. Static objects have their velocity
// zeroed regardless of the given value.
func NewObject(name string, mass, radius float64, position, velocity Vec2, movement MovementType) (Object, error) {
	if mass <= 0 {
		return Object{}, errors.New("mass must be positive")
	}
	if radius <= 0 {
		return Object{}, errors.New("radius must be positive")
	}
	if movement == Static {
		velocity = Vec2{}
	}
	return Object{
		Name:     name,
		Mass:     mass,
		Radius:   radius,
		Position: position,
		Velocity: velocity,
		Movement: movement,
	}, nil
}

// ControlState is the pressed-direction flags of the controllable object.
type ControlState struct {
	Up, Down, Left, Right bool
}

// direction is the unit-per-axis input vector: right minus left, up minus down.
func (c ControlState) direction() Vec2 {
	var d Vec2
	if c.Right {
		d.X++
	}
	if c.Left {
		d.X--
	}
	if c.Up {
		d.Y++
	}
	if c.Down {
		d.Y--
	}
	return d
}

// Params are the tunable constants of a simulation run.
type Params struct {
	TimeDelta      float64
	SimulationTime float64
	G              float64
	Collision      CollisionType
	AccelRate      float64
	Elasticity     float64
}

// DefaultParams mirrors the engine's historical defaults.
func DefaultParams() Params {
	return Params{
		TimeDelta:      1e-4,
		SimulationTime: 10.0,
		G:              10.0,
		Collision:      Elastic,
		AccelRate:      1.0,
		Elasticity:     0.5,
	}
}

// Simulation is a running world. It is not safe for concurrent use; the feed
// server serializes access.
type Simulation struct {
	Objects []Object
	Params

	// Control is non-nil when the world contains a controllable object.
	Control *ControlState
}

// New validates parameters and creates a simulation.
func New(objects []Object, params Params) (*Simulation, error) {
	controllable := 0
	for _, o := range objects {
		if o.Movement == Controllable {
			controllable++
		}
	}
	if controllable > 1 {
		return nil, errors.New("multiple controllable objects are not supported")
	}
	if params.TimeDelta <= 0 {
		return nil, errors.New("time delta must be positive")
	}
	if params.SimulationTime <= 0 {
		return nil, errors.New("simulation time must be positive")
	}
	if params.G <= 0 {
		return nil, errors.New("gravity constant must be positive")
	}
	if params.AccelRate <= 0 {
		return nil, errors.New("acceleration rate must be positive")
	}
	if params.Elasticity < 0 || params.Elasticity > 1 {
		return nil, errors.New("elasticity coefficient must be in [0, 1]")
	}

	s := &Simulation{Objects: objects, Params: params}
	if controllable == 1 {
		s.Control = &ControlState{}
	}
	return s, nil
}

// TotalSteps is the number of steps the run covers.
func (s *Simulation) TotalSteps() int {
	return int(math.Floor(s.SimulationTime / s.TimeDelta))
}

// Step advances the world by one TimeDelta: collisions first (in the elastic
// model), then gravity and input acceleration, then an explicit integration
// pass computed against the pre-step snapshot.
func (s *Simulation) Step() {
	if s.Collision == Elastic {
		s.resolveCollisions()
	}

	next := make([]Object, len(s.Objects))
	copy(next, s.Objects)

	for i := range s.Objects {
		if s.Objects[i].Movement == Static {
			continue
		}
		next[i].Acceleration = s.accelerationAt(i)
		next[i].Position = s.Objects[i].Position.Add(s.Objects[i].Velocity.Scale(s.TimeDelta))
		next[i].Velocity = s.Objects[i].Velocity.Add(s.Objects[i].Acceleration.Scale(s.TimeDelta))
	}

	s.Objects = next
}

// accelerationAt computes the net acceleration on object i: summed gravity
// from every other body plus, for the controllable object, the input vector
// times the acceleration rate.
func (s *Simulation) accelerationAt(i int) Vec2 {
	obj := &s.Objects[i]
	if obj.Movement == Static {
		return Vec2{}
	}

	var acc Vec2
	for j := range s.Objects {
		if i == j {
			continue
		}
		r := s.Objects[j].Position.Sub(obj.Position)
		dist := r.Norm()
		if dist == 0 {
			continue // coincident bodies exert no force
		}
		// The historical engine attenuates with distance^1.5 rather than
		// the physical square; preserved for identical trajectories.
		acc = acc.Add(r.Scale(s.G * s.Objects[j].Mass / math.Pow(dist, 1.5)))
	}

	if obj.Movement == Controllable && s.Control != nil {
		acc = acc.Add(s.Control.direction().Scale(s.AccelRate))
	}
	return acc
}

// exchangeNormalVelocity returns the post-collision normal velocity of a body
// with mass m1 and normal velocity v1 against a body with mass m2 and normal
// velocity v2, under elasticity e.
func exchangeNormalVelocity(m1, m2 float64, v1, v2 Vec2, e float64) Vec2 {
	return Vec2{
		X: ((m1-e*m2)*v1.X + (1+e)*m2*v2.X) / (m1 + m2),
		Y: ((m1-e*m2)*v1.Y + (1+e)*m2*v2.Y) / (m1 + m2),
	}
}

// resolveCollisions finds every overlapping pair and exchanges their normal
// velocity components, leaving tangential components untouched. Static bodies
// keep their velocity.
func (s *Simulation) resolveCollisions() {
	type pair struct{ i, j int }
	var collisions []pair

	for i := 0; i < len(s.Objects); i++ {
		for j := i + 1; j < len(s.Objects); j++ {
			delta := s.Objects[j].Position.Sub(s.Objects[i].Position)
			if delta.Norm() <= s.Objects[i].Radius+s.Objects[j].Radius {
				collisions = append(collisions, pair{i, j})
			}
		}
	}

	for _, c := range collisions {
		a, b := &s.Objects[c.i], &s.Objects[c.j]

		delta := b.Position.Sub(a.Position)
		dist := delta.Norm()
		if dist == 0 {
			continue
		}
		normal := delta.Scale(1 / dist)
		tangent := Vec2{X: -normal.Y, Y: normal.X}

		aNormal := normal.Scale(a.Velocity.Dot(normal))
		aTangent := tangent.Scale(a.Velocity.Dot(tangent))
		bNormal := normal.Scale(b.Velocity.Dot(normal))
		bTangent := tangent.Scale(b.Velocity.Dot(tangent))

		newANormal := aNormal
		if a.Movement != Static {
			newANormal = exchangeNormalVelocity(a.Mass, b.Mass, aNormal, bNormal, s.Elasticity)
		}
		newBNormal := bNormal
		if b.Movement != Static {
			newBNormal = exchangeNormalVelocity(b.Mass, a.Mass, bNormal, aNormal, s.Elasticity)
		}

		a.Velocity = newANormal.Add(aTangent)
		b.Velocity = newBNormal.Add(bTangent)
	}
}
