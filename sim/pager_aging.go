package sim

// AgingPager keeps a 32-bit reference history per frame, newest sample in bit 31,
// and evicts the frame with the smallest history.
// Age words follow the frame, not the page: they are never reset on remap.
type AgingPager struct {
	ages []uint32
}

// NewAgingPager creates an AgingPager with zeroed age words for numFrames frames.
func NewAgingPager(numFrames int) *AgingPager {
	return &AgingPager{ages: make([]uint32, numFrames)}
}

func (p *AgingPager) SelectVictim(mem *Memory) *Frame {
	p.age(mem)

	victim := 0
	for i := 1; i < len(p.ages); i++ {
		if p.ages[i] < p.ages[victim] {
			victim = i
		}
	}
	return mem.Frames[victim]
}

// age shifts every age word right by one, samples R into bit 31, and clears R.
func (p *AgingPager) age(mem *Memory) {
	for i, f := range mem.Frames {
		pte := mem.Owner(f)
		var ref uint32
		if pte.Referenced {
			ref = 1
		}
		p.ages[i] = p.ages[i]>>1 | ref<<31
		pte.Referenced = false
	}
}

// Ages returns the age words indexed by frame number.
func (p *AgingPager) Ages() []uint32 {
	return p.ages
}
