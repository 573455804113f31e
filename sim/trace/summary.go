package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents      int
	KindCounts       map[string]int // event kind → count
	FaultingAccesses int            // distinct instructions that recorded at least one event
	EvictionsByOwner map[int]int    // process ID → number of its pages unmapped
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindCounts:       make(map[string]int),
		EvictionsByOwner: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Faults)
	seen := make(map[uint64]bool)
	for _, f := range st.Faults {
		summary.KindCounts[f.Kind]++
		if f.Kind == "UNMAP" {
			summary.EvictionsByOwner[f.VictimProcess]++
		}
		seen[f.Instruction] = true
	}
	summary.FaultingAccesses = len(seen)

	return summary
}
