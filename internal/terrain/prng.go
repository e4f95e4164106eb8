package terrain

// DefaultSeed is used whenever a run is started with a zero seed.
const DefaultSeed uint32 = 12345678

const multiplier uint32 = 3141592621

// PRNG is the multiplicative 32-bit generator the walk consumes. The full
// 32-bit state carries across calls; only bits 8..22 are observable. Not safe
// for concurrent use: every generation run owns its own instance.
type PRNG struct {
	state uint32
}

// NewPRNG returns a generator seeded with seed (DefaultSeed if seed is 0).
func NewPRNG(seed uint32) *PRNG {
	p := &PRNG{}
	p.Seed(seed)
	return p
}

// Seed resets the state. A zero seed falls back to DefaultSeed; seeding with
// 0 and seeding with DefaultSeed produce identical streams.
func (p *PRNG) Seed(seed uint32) {
	if seed == 0 {
		seed = DefaultSeed
	}
	p.state = seed
}

// Next advances the state (uint32 wraparound multiply) and returns the next
// output in [0, 32767].
func (p *PRNG) Next() uint32 {
	p.state *= multiplier
	return (p.state >> 8) & 0x7fff
}
