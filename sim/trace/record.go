// Package trace provides fault-trace recording for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// FaultRecord captures one event of an access resolution.
// Fields that do not apply to a kind hold -1.
type FaultRecord struct {
	Instruction   uint64 // zero-based instruction number
	Process       int    // process performing the access
	Page          int    // accessed virtual page
	Kind          string // SEGV, SEGPROT, ZERO, IN, FIN, OUT, FOUT, MAP, UNMAP
	Frame         int    // frame involved in the fault
	VictimProcess int    // owner of the evicted page (UNMAP, OUT, FOUT)
	VictimPage    int    // evicted page (UNMAP, OUT, FOUT)
}
