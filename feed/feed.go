// Package feed is the simulation feed server: it owns running simulations,
// streams update_step snapshots to each session over a websocket, and applies
// button_press intents to the session's controllable object.
package feed

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"simview"
	"simview/sim"
)

const (
	// emitInterval is the target cadence of update_step snapshots.
	emitInterval = time.Second / 60

	writeWait     = 10 * time.Second
	outboundDepth = 32
)

// Server routes the feed's three endpoints and owns all live sessions.
type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	runs        map[string]*run
	subscribers map[string]*subscriber
}

// run is one executing simulation: the stepper goroutine plus its stop flag.
type run struct {
	mu    sync.Mutex // guards world
	world *sim.Simulation

	stop atomic.Bool
	done chan struct{}
}

// subscriber is one connected session's outbound channel.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex // guards conn writes
}

// New creates a feed server.
func New(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		runs:        make(map[string]*run),
		subscribers: make(map[string]*subscriber),
	}
}

// Router returns the HTTP handler: the original service surface plus
// permissive CORS for browser clients.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger, corsMiddleware)
	r.Post("/launch_simulation", s.handleLaunch)
	r.Post("/delete_simulation", s.handleDelete)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// handleLaunch replaces any running simulation for the session and starts a
// new stepper goroutine.
func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req simview.LaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid JSON body"})
		return
	}

	s.stopRun(req.UserID)

	world, err := buildSimulation(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	rn := &run{world: world, done: make(chan struct{})}
	s.mu.Lock()
	s.runs[req.UserID] = rn
	s.mu.Unlock()

	go s.runLoop(req.UserID, rn)
	s.log.Info("simulation launched", "user_id", req.UserID, "objects", len(world.Objects))

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// handleDelete stops the session's simulation, if any.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req simview.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid JSON body"})
		return
	}
	s.stopRun(req.UserID)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// buildSimulation maps a launch request onto the engine, applying the feed's
// historical defaults for omitted fields.
func buildSimulation(req simview.LaunchRequest) (*sim.Simulation, error) {
	params := sim.DefaultParams()
	if req.TimeDelta != nil {
		params.TimeDelta = *req.TimeDelta
	}
	if req.SimulationTime != nil {
		params.SimulationTime = *req.SimulationTime
	}
	if req.G != nil {
		params.G = *req.G
	}
	if req.AccelRate != nil {
		params.AccelRate = *req.AccelRate
	}
	if req.Elasticity != nil {
		params.Elasticity = *req.Elasticity
	}
	if req.CollisionType != nil {
		ct, err := sim.ParseCollisionType(*req.CollisionType)
		if err != nil {
			return nil, err
		}
		params.Collision = ct
	}

	objects := make([]sim.Object, 0, len(req.SpaceObjects))
	for _, o := range req.SpaceObjects {
		movement, err := sim.ParseMovementType(o.MovementType)
		if err != nil {
			return nil, err
		}
		name := o.Name
		if name == "" {
			name = "Unnamed"
		}
		mass := o.Mass
		if mass == 0 {
			mass = 1
		}
		radius := o.Radius
		if radius == 0 {
			radius = 1
		}
		velocity := sim.Vec2{X: o.Velocity.X, Y: o.Velocity.Y}
		if movement == sim.Static {
			velocity = sim.Vec2{}
		}
		objects = append(objects, sim.Object{
			Name:     name,
			Mass:     mass,
			Radius:   radius,
			Position: sim.Vec2{X: o.Position.X, Y: o.Position.Y},
			Velocity: velocity,
			Movement: movement,
		})
	}

	return sim.New(objects, params)
}

// stopRun removes and stops the session's run, waiting for the stepper to
// exit so a relaunch never races its predecessor.
func (s *Server) stopRun(userID string) {
	s.mu.Lock()
	rn, ok := s.runs[userID]
	if ok {
		delete(s.runs, userID)
	}
	s.mu.Unlock()
	if ok {
		rn.stop.Store(true)
		<-rn.done
	}
}

// lookupRun returns the session's run, if any.
func (s *Server) lookupRun(userID string) *run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[userID]
}

// runLoop steps the simulation at the emit cadence: several engine steps per
// snapshot so wall-clock playback speed is independent of TimeDelta.
func (s *Server) runLoop(userID string, rn *run) {
	defer close(rn.done)

	rn.mu.Lock()
	stepsPerEmit := int(emitInterval.Seconds() / rn.world.TimeDelta)
	if stepsPerEmit < 1 {
		stepsPerEmit = 1
	}
	totalSteps := rn.world.TotalSteps()
	rn.mu.Unlock()

	stepCount := 0
	for !rn.stop.Load() && stepCount < totalSteps {
		start := time.Now()

		rn.mu.Lock()
		for i := 0; i < stepsPerEmit && stepCount < totalSteps; i++ {
			rn.world.Step()
			stepCount++
		}
		payload := snapshotPayload(rn.world)
		rn.mu.Unlock()

		s.sendToSession(userID, payload)

		if remaining := emitInterval - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	s.log.Info("simulation finished", "user_id", userID, "steps", stepCount)
}

// snapshotPayload builds the update_step message: an ordered array of
// single-key objects, each keyed by the object's stringified index.
func snapshotPayload(world *sim.Simulation) []byte {
	type position struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Radius float64 `json:"radius"`
	}
	data := make([]map[string]position, len(world.Objects))
	for i, obj := range world.Objects {
		data[i] = map[string]position{
			strconv.Itoa(i): {X: obj.Position.X, Y: obj.Position.Y, Radius: obj.Radius},
		}
	}
	raw, _ := json.Marshal(struct {
		Event string                `json:"event"`
		Data  []map[string]position `json:"data"`
	}{Event: simview.EventUpdateStep, Data: data})
	return raw
}

// sendToSession delivers a payload to the session's websocket, dropping it
// when the session has no live connection.
func (s *Server) sendToSession(userID string, payload []byte) {
	s.mu.Lock()
	sub := s.subscribers[userID]
	s.mu.Unlock()
	if sub == nil {
		return
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.log.Warn("dropping session write", "user_id", userID, "err", err)
	}
}

// handleWS upgrades the connection, assigns a session id, sends the
// handshake, and reads button_press intents until the peer goes away. The
// session's simulation is stopped when the connection closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	userID := uuid.NewString()
	sub := &subscriber{conn: conn}

	s.mu.Lock()
	s.subscribers[userID] = sub
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subscribers, userID)
		s.mu.Unlock()
		s.stopRun(userID)
		conn.Close()
		s.log.Info("session closed", "user_id", userID)
	}()

	handshake, _ := json.Marshal(map[string]string{"user_id": userID})
	sub.mu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, handshake)
	sub.mu.Unlock()
	if err != nil {
		return
	}
	s.log.Info("session opened", "user_id", userID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleClientMessage(userID, raw)
	}
}

// clientMessage is the inbound shape from viewers.
type clientMessage struct {
	Event string `json:"event"`
	Data  struct {
		Direction string `json:"direction"`
		IsPressed bool   `json:"is_pressed"`
	} `json:"data"`
}

// handleClientMessage applies a button_press to the session's controllable
// object. Anything malformed or unknown is dropped.
func (s *Server) handleClientMessage(userID string, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Event != simview.EventButtonPress {
		return
	}

	rn := s.lookupRun(userID)
	if rn == nil {
		return
	}

	rn.mu.Lock()
	defer rn.mu.Unlock()
	if rn.world.Control == nil {
		return
	}
	switch simview.Direction(msg.Data.Direction) {
	case simview.DirectionUp:
		rn.world.Control.Up = msg.Data.IsPressed
	case simview.DirectionDown:
		rn.world.Control.Down = msg.Data.IsPressed
	case simview.DirectionLeft:
		rn.world.Control.Left = msg.Data.IsPressed
	case simview.DirectionRight:
		rn.world.Control.Right = msg.Data.IsPressed
	}
}
