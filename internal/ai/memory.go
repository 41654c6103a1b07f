package ai

import "dogfight-arena/internal/vec"

const (
	memorySamples     = 30
	predictionSamples = 10
	strafeMinSamples  = 5
)

// memory records recent enemy velocities, keyed by ship ID
type memory struct {
	tracks map[int][]vec.Vec3
	seen   map[int]bool
}

func newMemory() *memory {
	return &memory{
		tracks: make(map[int][]vec.Vec3),
		seen:   make(map[int]bool),
	}
}

// record appends one velocity sample, keeping the newest memorySamples
func (m *memory) record(id int, v vec.Vec3) {
	t := append(m.tracks[id], v)
	if len(t) > memorySamples {
		t = append(t[:0], t[len(t)-memorySamples:]...)
	}
	m.tracks[id] = t
	m.seen[id] = true
}

// prune forgets every ship not recorded since the last prune
func (m *memory) prune() {
	for id := range m.tracks {
		if !m.seen[id] {
			delete(m.tracks, id)
		}
	}
	clear(m.seen)
}

func (m *memory) samples(id int) []vec.Vec3 {
	return m.tracks[id]
}

// meanVelocity averages the last predictionSamples samples. It only
// answers once more than predictionSamples have been recorded.
func (m *memory) meanVelocity(id int) (vec.Vec3, bool) {
	t := m.tracks[id]
	if len(t) <= predictionSamples {
		return vec.Zero, false
	}
	var sum vec.Vec3
	for _, v := range t[len(t)-predictionSamples:] {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / predictionSamples), true
}

// last returns the newest sample
func (m *memory) last(id int) (vec.Vec3, bool) {
	t := m.tracks[id]
	if len(t) == 0 {
		return vec.Zero, false
	}
	return t[len(t)-1], true
}
