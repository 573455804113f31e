package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === NumberSource ===

// NumberSource supplies the deterministic values consumed by the random and NRU pagers.
type NumberSource interface {
	// Next returns a value in [0, bound). bound must be positive.
	Next(bound int) int
}

// RandomFile replays a fixed list of non-negative integers, reduced modulo the bound.
// Exhausting the list wraps around to its start.
type RandomFile struct {
	numbers []int
	cur     int
}

// NewRandomFile creates a RandomFile over numbers. Returns an error for an empty list
// or a negative value.
func NewRandomFile(numbers []int) (*RandomFile, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("random number list is empty")
	}
	for i, n := range numbers {
		if n < 0 {
			return nil, fmt.Errorf("random number %d is negative (%d)", i, n)
		}
	}
	return &RandomFile{numbers: numbers}, nil
}

// Next returns numbers[cur] % bound and advances the cursor.
func (rf *RandomFile) Next(bound int) int {
	v := rf.numbers[rf.cur] % bound
	rf.cur = (rf.cur + 1) % len(rf.numbers)
	return v
}

// Len returns the number of values in the list.
func (rf *RandomFile) Len() int {
	return len(rf.numbers)
}

// SeededSource draws from a seeded PRNG; used when no random file is supplied.
type SeededSource struct {
	rng *rand.Rand
}

// NewSeededSource creates a SeededSource on the pager subsystem of a PartitionedRNG.
func NewSeededSource(key SimulationKey) *SeededSource {
	return &SeededSource{rng: NewPartitionedRNG(key).ForSubsystem(SubsystemPager)}
}

func (s *SeededSource) Next(bound int) int {
	return s.rng.Intn(bound)
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical input
// MUST produce identical traces.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPager is the RNG subsystem for victim selection.
	// Uses master seed directly so --seed maps 1:1 onto the pager stream.
	SubsystemPager = "pager"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemPager: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemPager {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
