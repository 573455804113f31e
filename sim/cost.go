package sim

// Unit costs of simulated operations, in cycles.
const (
	CostMapUnmap      = 400
	CostPageInOut     = 3000
	CostFileInOut     = 2500
	CostZeroFill      = 150
	CostSegv          = 240
	CostSegprot       = 300
	CostContextSwitch = 121
	CostMemoryAccess  = 1
)

// Cost returns the process' share of the total run cost.
func (s ProcessStats) Cost() uint64 {
	return (s.Maps+s.Unmaps)*CostMapUnmap +
		(s.PageIns+s.PageOuts)*CostPageInOut +
		(s.FileIns+s.FileOuts)*CostFileInOut +
		s.ZeroFills*CostZeroFill +
		s.SegvFaults*CostSegv +
		s.SegprotFaults*CostSegprot
}

// RunStats holds the run-level counters.
type RunStats struct {
	Instructions    uint64 // every script line processed, context switches included
	ContextSwitches uint64
	Reads           uint64 // includes SEGV and SEGPROT accesses
	Writes          uint64 // completed writes only
}

// TotalCost sums the per-process costs and the run-level overheads.
func (r RunStats) TotalCost(processes []*Process) uint64 {
	var cost uint64
	for _, p := range processes {
		cost += p.Stats.Cost()
	}
	return cost + r.ContextSwitches*CostContextSwitch + (r.Reads+r.Writes)*CostMemoryAccess
}
