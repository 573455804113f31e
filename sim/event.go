package sim

import "fmt"

// EventKind tags one step of fault resolution.
type EventKind string

const (
	EventSegv    EventKind = "SEGV"    // access to an invalid page
	EventSegprot EventKind = "SEGPROT" // write to a write-protected page
	EventZero    EventKind = "ZERO"    // zero-filled a fresh anonymous page
	EventIn      EventKind = "IN"      // paged in from swap
	EventFileIn  EventKind = "FIN"     // read in from the backing file
	EventOut     EventKind = "OUT"     // wrote a modified victim to swap
	EventFileOut EventKind = "FOUT"    // wrote a modified victim back to its file
	EventMap     EventKind = "MAP"     // bound a page to Frame
	EventUnmap   EventKind = "UNMAP"   // broke the binding of Process:Page
)

// Event is a single trace event emitted while an access is resolved.
// Frame is set for MAP; Process and Page identify the victim for UNMAP.
type Event struct {
	Kind    EventKind
	Frame   int
	Process int
	Page    int
}

// String renders the event as a trace line without the leading indent.
func (e Event) String() string {
	switch e.Kind {
	case EventMap:
		return fmt.Sprintf("%s %d", e.Kind, e.Frame)
	case EventUnmap:
		return fmt.Sprintf("%s %d:%d", e.Kind, e.Process, e.Page)
	default:
		return string(e.Kind)
	}
}

// Observer receives the progress of a run. Seq is the zero-based instruction number.
type Observer interface {
	BeforeInstruction(seq uint64, inst Instruction)
	OnEvent(seq uint64, ev Event)
	AfterInstruction(seq uint64, inst Instruction)
}
