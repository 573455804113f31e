package sim

import "fmt"

// PageTableSize is the number of virtual pages in every process address space.
const PageTableSize = 64

// PTE is a page table entry: the residency and permission record of one virtual page.
type PTE struct {
	Valid          bool // page belongs to a VMA (false for holes)
	WriteProtected bool // writes raise SEGPROT
	Modified       bool // written since it was last loaded into a frame
	Referenced     bool // accessed since the last clear by a pager or a (re)load
	PagedOut       bool // modified content was evicted to swap at least once
	FileMapped     bool // backed by a file rather than swap
	FrameAssigned  bool // currently resident
	FrameIndex     int  // frame number holding this page; meaningful only if FrameAssigned
}

// VMA is a contiguous, inclusive range of virtual pages sharing protection and backing.
type VMA struct {
	StartPage      int  `yaml:"start"`
	EndPage        int  `yaml:"end"`
	WriteProtected bool `yaml:"write_protected"`
	FileMapped     bool `yaml:"file_mapped"`
}

// ProcessStats holds the per-process event counters used by the cost model.
type ProcessStats struct {
	Unmaps        uint64
	Maps          uint64
	PageIns       uint64
	PageOuts      uint64
	FileIns       uint64
	FileOuts      uint64
	ZeroFills     uint64
	SegvFaults    uint64 // accesses to invalid pages
	SegprotFaults uint64 // writes to write-protected pages
}

// Process owns a fixed-size page table and its counters.
// Processes are created once at load time and live for the whole run.
type Process struct {
	ID        int
	PageTable []PTE
	Stats     ProcessStats
}

// NewProcess creates a process whose page table is seeded from vmas.
// Pages not covered by any VMA are holes (Valid=false).
// The VMAs must lie within the address space and must not overlap.
func NewProcess(id int, vmas []VMA) (*Process, error) {
	p := &Process{
		ID:        id,
		PageTable: make([]PTE, PageTableSize),
	}
	for i, vma := range vmas {
		if vma.StartPage < 0 || vma.EndPage >= PageTableSize || vma.StartPage > vma.EndPage {
			return nil, fmt.Errorf("process %d: vma %d has invalid range [%d, %d]", id, i, vma.StartPage, vma.EndPage)
		}
		for v := vma.StartPage; v <= vma.EndPage; v++ {
			pte := &p.PageTable[v]
			if pte.Valid {
				return nil, fmt.Errorf("process %d: vma %d overlaps page %d", id, i, v)
			}
			pte.Valid = true
			pte.WriteProtected = vma.WriteProtected
			pte.FileMapped = vma.FileMapped
		}
	}
	return p, nil
}

// PTE returns the entry for virtual page v.
func (p *Process) PTE(v int) *PTE {
	return &p.PageTable[v]
}
