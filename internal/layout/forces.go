package layout

import "math"

// jiggle returns a tiny deterministic offset used to separate coincident
// particles so force directions stay defined.
func jiggle(i int) float64 {
	return 1e-6 * float64(i%7+1)
}

// applyLinks pulls connected particles toward their per-link target distance.
// The correction is split between endpoints biased by degree, so well-connected
// hubs move less than leaf nodes.
func (e *Engine) applyLinks() {
	for i, l := range e.links {
		src := e.particles[l.source]
		tgt := e.particles[l.target]
		dx := tgt.x + tgt.vx - src.x - src.vx
		dy := tgt.y + tgt.vy - src.y - src.vy
		if dx == 0 && dy == 0 {
			dx, dy = jiggle(i), -jiggle(i)
		}
		dist := math.Hypot(dx, dy)
		scale := (dist - l.distance) / dist * e.alpha * e.opts.LinkStrength
		dx *= scale
		dy *= scale
		tgt.vx -= dx * l.bias
		tgt.vy -= dy * l.bias
		src.vx += dx * (1 - l.bias)
		src.vy += dy * (1 - l.bias)
	}
}

// applyCharge applies pairwise many-body repulsion. Brute force over all
// pairs; the projector's node cap keeps this bounded.
func (e *Engine) applyCharge() {
	for i := 0; i < len(e.particles); i++ {
		for j := i + 1; j < len(e.particles); j++ {
			a, b := e.particles[i], e.particles[j]
			dx := b.x - a.x
			dy := b.y - a.y
			if dx == 0 && dy == 0 {
				dx, dy = jiggle(i+j), jiggle(j)
			}
			l2 := dx*dx + dy*dy
			w := e.opts.ChargeStrength * e.alpha / l2
			a.vx += dx * w
			a.vy += dy * w
			b.vx -= dx * w
			b.vy -= dy * w
		}
	}
}

// applyCenter shifts the whole layout so its centroid tracks the configured
// center, preventing drift off-screen.
func (e *Engine) applyCenter() {
	if len(e.particles) == 0 {
		return
	}
	var sx, sy float64
	for _, p := range e.particles {
		sx += p.x
		sy += p.y
	}
	sx = sx/float64(len(e.particles)) - e.opts.CenterX
	sy = sy/float64(len(e.particles)) - e.opts.CenterY
	for _, p := range e.particles {
		if !p.fixed {
			p.x -= sx
			p.y -= sy
		}
	}
}

// applyCollision enforces a soft minimum separation between particle centers,
// weaker than link and charge so it resolves overlaps without fighting them.
func (e *Engine) applyCollision() {
	r := e.opts.CollisionRadius
	for i := 0; i < len(e.particles); i++ {
		for j := i + 1; j < len(e.particles); j++ {
			a, b := e.particles[i], e.particles[j]
			dx := b.x - a.x
			dy := b.y - a.y
			if dx == 0 && dy == 0 {
				dx, dy = jiggle(i+j), -jiggle(i)
			}
			dist := math.Hypot(dx, dy)
			if dist >= r {
				continue
			}
			push := (r - dist) / dist * e.opts.CollisionStrength * 0.5
			dx *= push
			dy *= push
			if !a.fixed {
				a.x -= dx
				a.y -= dy
			}
			if !b.fixed {
				b.x += dx
				b.y += dy
			}
		}
	}
}

// integrate applies damped velocities to positions. Fixed particles stay
// pinned at the center with zero velocity.
func (e *Engine) integrate() {
	damping := 1 - e.opts.VelocityDecay
	for _, p := range e.particles {
		if p.fixed {
			p.x, p.y = e.opts.CenterX, e.opts.CenterY
			p.vx, p.vy = 0, 0
			continue
		}
		p.vx *= damping
		p.vy *= damping
		p.x += p.vx
		p.y += p.vy
	}
}
