package sim

import "fmt"

// Pager selects the victim frame once the free pool is exhausted.
// SelectVictim is only called when every frame is resident, and must return one of
// mem.Frames. A pager may clear Referenced bits as a side effect; it never touches
// Modified, Valid, or frame ownership.
type Pager interface {
	SelectVictim(mem *Memory) *Frame
}

// Canonical pager names.
const (
	PagerFIFO         = "fifo"
	PagerSecondChance = "second-chance"
	PagerRandom       = "random"
	PagerNRU          = "nru"
	PagerClock        = "clock"
	PagerAging        = "aging"
)

// pagerAliases maps the one-letter algorithm codes of the classic pager CLI to canonical names.
var pagerAliases = map[string]string{
	"f": PagerFIFO,
	"s": PagerSecondChance,
	"r": PagerRandom,
	"n": PagerNRU,
	"c": PagerClock,
	"a": PagerAging,
}

// ValidPagers is the set of recognized canonical pager names.
var ValidPagers = map[string]bool{
	PagerFIFO: true, PagerSecondChance: true, PagerRandom: true,
	PagerNRU: true, PagerClock: true, PagerAging: true,
}

// CanonicalPagerName resolves one-letter codes; canonical names pass through unchanged.
func CanonicalPagerName(name string) string {
	if canon, ok := pagerAliases[name]; ok {
		return canon
	}
	return name
}

// IsValidPager returns true if name is a canonical pager name or a one-letter code.
func IsValidPager(name string) bool {
	return ValidPagers[CanonicalPagerName(name)]
}

// NewPager creates a pager by name over mem. src feeds the random and NRU pagers.
// Panics on unrecognized names; check IsValidPager first.
func NewPager(name string, mem *Memory, src NumberSource) Pager {
	switch CanonicalPagerName(name) {
	case PagerFIFO:
		return &FIFOPager{}
	case PagerSecondChance:
		return NewSecondChancePager(mem)
	case PagerRandom:
		return &RandomPager{src: src}
	case PagerNRU:
		return &NRUPager{src: src}
	case PagerClock:
		return &ClockPager{}
	case PagerAging:
		return NewAgingPager(len(mem.Frames))
	default:
		panic(fmt.Sprintf("unknown pager %q", name))
	}
}

// FIFOPager evicts frames in frame order, ignoring reference bits.
type FIFOPager struct {
	next int
}

func (p *FIFOPager) SelectVictim(mem *Memory) *Frame {
	f := mem.Frames[p.next]
	p.next = (p.next + 1) % len(mem.Frames)
	return f
}

// RandomPager evicts frames[src.Next(N)].
type RandomPager struct {
	src NumberSource
}

func (p *RandomPager) SelectVictim(mem *Memory) *Frame {
	return mem.Frames[p.src.Next(len(mem.Frames))]
}
