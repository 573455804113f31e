// Renders run progress and end-of-run summaries in the classic pager text format.

package sim

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// OutputOptions selects what a Printer writes. Each field corresponds to one option letter.
type OutputOptions struct {
	Trace          bool // O: instruction header and event lines
	PageTables     bool // P: every page table at the end
	FrameTable     bool // F: the frame table at the end
	Summary        bool // S: per-process stats and total cost
	PageTableEach  bool // x: current page table after each instruction
	FrameTableEach bool // f: frame table and aging words after each instruction
}

// ParseOutputOptions reads option letters from s, e.g. "OPFS". Letters are case-sensitive.
func ParseOutputOptions(s string) (OutputOptions, error) {
	var o OutputOptions
	for _, c := range s {
		switch c {
		case 'O':
			o.Trace = true
		case 'P':
			o.PageTables = true
		case 'F':
			o.FrameTable = true
		case 'S':
			o.Summary = true
		case 'x':
			o.PageTableEach = true
		case 'f':
			o.FrameTableEach = true
		default:
			return OutputOptions{}, fmt.Errorf("unknown output option %q in %q", c, s)
		}
	}
	return o, nil
}

// Printer writes run output to W. It implements Observer; register it before Run and
// call Finish afterwards.
type Printer struct {
	Options OutputOptions
	sim     *Simulator
	w       *bufio.Writer
}

// NewPrinter creates a Printer for sim's run.
func NewPrinter(w io.Writer, sim *Simulator, opts OutputOptions) *Printer {
	return &Printer{Options: opts, sim: sim, w: bufio.NewWriter(w)}
}

func (p *Printer) BeforeInstruction(seq uint64, inst Instruction) {
	if p.Options.Trace {
		fmt.Fprintf(p.w, "%d: ==> %s\n", seq, inst)
	}
}

func (p *Printer) OnEvent(_ uint64, ev Event) {
	if p.Options.Trace {
		fmt.Fprintf(p.w, " %s\n", ev)
	}
}

func (p *Printer) AfterInstruction(seq uint64, _ Instruction) {
	// the opening context switch is not followed by tables
	if seq == 0 {
		return
	}
	if p.Options.PageTableEach {
		fmt.Fprintln(p.w, FormatPageTable(p.sim.Current()))
	}
	if p.Options.FrameTableEach {
		fmt.Fprintln(p.w, FormatFrameTable(p.sim.Memory))
		p.writeAges()
	}
}

// Finish writes the end-of-run sections and flushes.
func (p *Printer) Finish() error {
	if p.Options.PageTables {
		for _, proc := range p.sim.Processes() {
			fmt.Fprintln(p.w, FormatPageTable(proc))
		}
	}
	if p.Options.FrameTable {
		fmt.Fprintln(p.w, FormatFrameTable(p.sim.Memory))
	}
	if p.Options.Summary {
		for _, proc := range p.sim.Processes() {
			fmt.Fprintln(p.w, FormatStats(proc))
		}
		fmt.Fprintf(p.w, "TOTALCOST %d %d %d\n", p.sim.Stats.ContextSwitches, p.sim.Stats.Instructions, p.sim.TotalCost())
	}
	return p.w.Flush()
}

// Flush writes buffered output without the end-of-run sections; used when a run fails.
func (p *Printer) Flush() error {
	return p.w.Flush()
}

// writeAges prints the aging words of owned frames; nothing for other pagers.
func (p *Printer) writeAges() {
	aging, ok := p.sim.Pager.(*AgingPager)
	if !ok {
		return
	}
	var sb strings.Builder
	for i, age := range aging.Ages() {
		if !p.sim.Memory.Frames[i].Free() {
			// printed as signed 32-bit words
			fmt.Fprintf(&sb, "%d:%d ", i, int32(age))
		}
	}
	fmt.Fprintln(p.w, sb.String())
}

// FormatPageTable renders proc's page table: "v:RMS" for resident pages,
// "#" for swapped-out pages, "*" otherwise.
func FormatPageTable(proc *Process) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PT[%d]: ", proc.ID)
	for v := range proc.PageTable {
		pte := &proc.PageTable[v]
		switch {
		case pte.Valid && pte.FrameAssigned:
			fmt.Fprintf(&sb, "%d:%c%c%c ", v,
				flag(pte.Referenced, 'R'), flag(pte.Modified, 'M'), flag(pte.PagedOut, 'S'))
		case pte.Valid && pte.PagedOut:
			sb.WriteString("# ")
		default:
			sb.WriteString("* ")
		}
	}
	return sb.String()
}

// FormatFrameTable renders the reverse map: "p:v" per owned frame, "*" per free frame.
func FormatFrameTable(mem *Memory) string {
	var sb strings.Builder
	sb.WriteString("FT: ")
	for _, f := range mem.Frames {
		if f.Free() {
			sb.WriteString("* ")
		} else {
			fmt.Fprintf(&sb, "%d:%d ", f.ProcessID, f.Page)
		}
	}
	return sb.String()
}

// FormatStats renders one process' counters.
func FormatStats(proc *Process) string {
	s := proc.Stats
	return fmt.Sprintf("PROC[%d]: U=%d M=%d I=%d O=%d FI=%d FO=%d Z=%d SV=%d SP=%d",
		proc.ID, s.Unmaps, s.Maps, s.PageIns, s.PageOuts, s.FileIns, s.FileOuts, s.ZeroFills,
		s.SegvFaults, s.SegprotFaults)
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}
