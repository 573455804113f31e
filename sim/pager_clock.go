package sim

// ClockPager sweeps a hand over the frame table, clearing reference bits until it
// finds an unreferenced frame.
type ClockPager struct {
	hand int
}

func (p *ClockPager) SelectVictim(mem *Memory) *Frame {
	n := len(mem.Frames)
	f := mem.Frames[p.hand]
	for mem.Owner(f).Referenced {
		mem.Owner(f).Referenced = false
		p.hand = (p.hand + 1) % n
		f = mem.Frames[p.hand]
	}
	p.hand = (p.hand + 1) % n
	return f
}

// Hand returns the frame number the next sweep starts at.
func (p *ClockPager) Hand() int {
	return p.hand
}
