package sim

// nruResetPeriod is the number of NRU selections between reference-bit resets.
const nruResetPeriod = 10

// NRUPager evicts a random frame from the lowest non-empty class 2*R+M.
// Every nruResetPeriod selections it clears R on all referenced frames.
type NRUPager struct {
	src   NumberSource
	clock int
}

func (p *NRUPager) SelectVictim(mem *Memory) *Frame {
	var classes [4][]*Frame

	p.clock = (p.clock + 1) % nruResetPeriod

	for _, f := range mem.Frames {
		pte := mem.Owner(f)
		classes[nruClass(pte)] = append(classes[nruClass(pte)], f)
	}

	var victim *Frame
	for _, class := range classes {
		if len(class) > 0 {
			victim = class[p.src.Next(len(class))]
			break
		}
	}

	if p.clock == 0 {
		for _, class := range classes[2:] {
			for _, f := range class {
				mem.Owner(f).Referenced = false
			}
		}
	}

	return victim
}

func nruClass(pte *PTE) int {
	class := 0
	if pte.Referenced {
		class += 2
	}
	if pte.Modified {
		class++
	}
	return class
}
