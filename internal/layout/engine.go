// Package layout computes 2D node positions with a force-directed simulation.
//
// The engine composes four forces: link attraction with a target distance that
// shrinks as similarity grows, mutual charge repulsion, centering, and soft
// collision avoidance. The simulation runs in discrete ticks with a decaying
// alpha parameter; when alpha drops below its floor the layout is settled.
// Tuning favors fast convergence for interactive use over physical accuracy.
package layout

import (
	"math"

	"github.com/relmap/relmap/internal/models"
)

// State is the simulation lifecycle state.
type State int

const (
	// StateIdle means no inputs are loaded.
	StateIdle State = iota
	// StateSimulating means ticks are still moving nodes.
	StateSimulating
	// StateSettled means alpha decayed below its floor; positions are final.
	StateSettled
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSimulating:
		return "simulating"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Options holds the force tuning parameters.
type Options struct {
	// DistanceMultiplier scales link target distance: multiplier * (1 - similarity).
	DistanceMultiplier float64 `yaml:"distance_multiplier"` // default: 200
	// LinkStrength is the link force rigidity in (0, 1].
	LinkStrength float64 `yaml:"link_strength"` // default: 0.5
	// ChargeStrength is the many-body strength; negative repels.
	ChargeStrength float64 `yaml:"charge_strength"` // default: -300
	// CollisionRadius is the minimum separation between node centers.
	CollisionRadius float64 `yaml:"collision_radius"` // default: 50
	// CollisionStrength softens the collision constraint in (0, 1].
	CollisionStrength float64 `yaml:"collision_strength"` // default: 0.7
	// CenterX, CenterY is the layout center the whole graph is pulled toward.
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	// AlphaDecay controls convergence speed.
	AlphaDecay float64 `yaml:"alpha_decay"` // default: 0.05
	// VelocityDecay is per-tick velocity damping.
	VelocityDecay float64 `yaml:"velocity_decay"` // default: 0.3
	// AlphaMin is the settlement floor.
	AlphaMin float64 `yaml:"alpha_min"` // default: 0.001
	// AnchorID pins the named node at (CenterX, CenterY).
	AnchorID string `yaml:"-"`
}

// ApplyDefaults fills in zero values with defaults.
func (o *Options) ApplyDefaults() {
	if o.DistanceMultiplier == 0 {
		o.DistanceMultiplier = 200
	}
	if o.LinkStrength == 0 {
		o.LinkStrength = 0.5
	}
	if o.ChargeStrength == 0 {
		o.ChargeStrength = -300
	}
	if o.CollisionRadius == 0 {
		o.CollisionRadius = 50
	}
	if o.CollisionStrength == 0 {
		o.CollisionStrength = 0.7
	}
	if o.AlphaDecay == 0 {
		o.AlphaDecay = 0.05
	}
	if o.VelocityDecay == 0 {
		o.VelocityDecay = 0.3
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = 0.001
	}
}

type particle struct {
	node   *models.Node
	x, y   float64
	vx, vy float64
	fixed  bool
	degree int
}

type link struct {
	source, target int
	distance       float64
	bias           float64
}

// Engine is a stateful force simulation. It is single-owner: a new input set
// replaces all in-flight state, so no two simulations ever race over the same
// positions. Not safe for concurrent use.
type Engine struct {
	opts      Options
	graph     *models.Graph
	particles []*particle
	links     []link
	alpha     float64
	state     State
	ticks     int
}

// NewEngine creates an idle engine with the given tuning.
func NewEngine(opts Options) *Engine {
	opts.ApplyDefaults()
	return &Engine{opts: opts, state: StateIdle}
}

// Reset loads a new node/edge set, unconditionally discarding any in-flight
// simulation, and restarts from scratch. An empty graph leaves the engine idle.
func (e *Engine) Reset(graph *models.Graph) {
	e.graph = graph
	e.ticks = 0
	if graph == nil || len(graph.Nodes) == 0 {
		e.particles = nil
		e.links = nil
		e.alpha = 0
		e.state = StateIdle
		return
	}
	e.seed()
	e.alpha = 1
	e.state = StateSimulating
}

// Recompute restarts the simulation with the current inputs. No-op when idle.
func (e *Engine) Recompute() {
	if e.state == StateIdle {
		return
	}
	e.Reset(e.graph)
}

// seed places particles deterministically on a phyllotaxis spiral around the
// center, and pins the anchor node at the center itself.
func (e *Engine) seed() {
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))

	index := make(map[string]int, len(e.graph.Nodes))
	e.particles = make([]*particle, len(e.graph.Nodes))
	for i, n := range e.graph.Nodes {
		p := &particle{node: n}
		if n.ID == e.opts.AnchorID {
			p.x, p.y = e.opts.CenterX, e.opts.CenterY
			p.fixed = true
		} else {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			p.x = e.opts.CenterX + radius*math.Cos(angle)
			p.y = e.opts.CenterY + radius*math.Sin(angle)
		}
		e.particles[i] = p
		index[n.ID] = i
	}

	e.links = e.links[:0]
	for _, edge := range e.graph.Edges {
		si, ok1 := index[edge.Source]
		ti, ok2 := index[edge.Target]
		if !ok1 || !ok2 {
			continue
		}
		e.particles[si].degree++
		e.particles[ti].degree++
		e.links = append(e.links, link{
			source:   si,
			target:   ti,
			distance: e.opts.DistanceMultiplier * (1 - edge.Similarity),
		})
	}
	for i := range e.links {
		l := &e.links[i]
		ds := float64(e.particles[l.source].degree)
		dt := float64(e.particles[l.target].degree)
		l.bias = ds / (ds + dt)
	}
}

// Step advances the simulation by one tick. Returns true while more ticks are
// needed; once alpha reaches its floor the state becomes Settled and Step
// returns false without moving anything.
func (e *Engine) Step() bool {
	if e.state != StateSimulating {
		return false
	}

	e.alpha += (0 - e.alpha) * e.opts.AlphaDecay
	if e.alpha < e.opts.AlphaMin {
		e.finish()
		return false
	}

	e.applyLinks()
	e.applyCharge()
	e.applyCenter()
	e.applyCollision()
	e.integrate()
	e.ticks++
	return true
}

// finish pins fixed particles exactly and marks the layout settled.
func (e *Engine) finish() {
	for _, p := range e.particles {
		if p.fixed {
			p.x, p.y = e.opts.CenterX, e.opts.CenterY
			p.vx, p.vy = 0, 0
		}
	}
	e.state = StateSettled
}

// Settle runs ticks until the simulation settles or maxTicks is reached.
// Returns the number of ticks run.
func (e *Engine) Settle(maxTicks int) int {
	start := e.ticks
	for e.state == StateSimulating && e.ticks-start < maxTicks {
		if !e.Step() {
			break
		}
	}
	return e.ticks - start
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Alpha returns the current convergence parameter.
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// Ticks returns the tick count since the last reset.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Positions returns a snapshot of the current layout. Safe to call between
// ticks for progressive rendering; the returned slice is freshly allocated.
func (e *Engine) Positions() []*models.LayoutPoint {
	points := make([]*models.LayoutPoint, len(e.particles))
	for i, p := range e.particles {
		points[i] = &models.LayoutPoint{
			Node:   p.node,
			X:      p.x,
			Y:      p.y,
			Pinned: p.fixed,
		}
	}
	return points
}
