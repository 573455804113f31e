// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/vmsim/sim/trace"
)

// Simulator is the explicit context of one run: the memory arena, the free pool,
// the active pager, the current process and the run counters.
// It is single-threaded; one instruction is resolved at a time.
type Simulator struct {
	Memory *Memory
	Pool   *FramePool
	Pager  Pager
	Stats  RunStats
	// Trace collects fault records when enabled (optional).
	Trace *trace.SimulationTrace

	current   *Process
	seq       uint64
	observers []Observer
}

// NewSimulator creates a simulator over processes with cfg.Frames free frames and the
// pager named by cfg.Pager. src may be nil for pagers that draw no random numbers.
func NewSimulator(cfg SimConfig, processes []*Process, src NumberSource) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := CanonicalPagerName(cfg.Pager)
	if (name == PagerRandom || name == PagerNRU) && src == nil {
		return nil, fmt.Errorf("pager %q requires a number source", name)
	}
	for i, p := range processes {
		if p.ID != i {
			return nil, fmt.Errorf("process at index %d has id %d", i, p.ID)
		}
	}

	mem := NewMemory(cfg.Frames, processes)
	s := &Simulator{
		Memory: mem,
		Pool:   NewFramePool(mem.Frames),
		Pager:  NewPager(name, mem, src),
	}
	if cfg.TraceLevel == trace.TraceLevelEvents {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}
	return s, nil
}

// AddObserver registers o to receive run progress.
func (sim *Simulator) AddObserver(o Observer) {
	sim.observers = append(sim.observers, o)
}

// Processes returns all processes, indexed by ID.
func (sim *Simulator) Processes() []*Process {
	return sim.Memory.Processes
}

// Current returns the process selected by the last context switch, or nil.
func (sim *Simulator) Current() *Process {
	return sim.current
}

// TotalCost returns the cost of the run so far.
func (sim *Simulator) TotalCost() uint64 {
	return sim.Stats.TotalCost(sim.Memory.Processes)
}

// Run resolves every instruction of src in order. It stops at the first error.
func (sim *Simulator) Run(src InstructionSource) error {
	for {
		inst, ok, err := src.Next()
		if err != nil {
			return fmt.Errorf("reading instruction %d: %w", sim.seq, err)
		}
		if !ok {
			break
		}
		if err := sim.Step(inst); err != nil {
			return err
		}
	}
	logrus.Infof("run ended after %d instructions, cost %d", sim.Stats.Instructions, sim.TotalCost())
	return nil
}

// Step resolves a single instruction.
func (sim *Simulator) Step(inst Instruction) error {
	seq := sim.seq
	if err := sim.check(inst); err != nil {
		return fmt.Errorf("instruction %d (%s): %w", seq, inst, err)
	}
	sim.seq++
	sim.Stats.Instructions++

	for _, o := range sim.observers {
		o.BeforeInstruction(seq, inst)
	}

	switch inst.Op {
	case OpContext:
		sim.Stats.ContextSwitches++
		sim.current = sim.Memory.Processes[inst.Arg]
	case OpRead, OpWrite:
		if err := sim.access(seq, inst.Arg, inst.Op == OpWrite); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", seq, inst, err)
		}
	}

	for _, o := range sim.observers {
		o.AfterInstruction(seq, inst)
	}
	return nil
}

// check rejects instructions the loader should never have produced.
func (sim *Simulator) check(inst Instruction) error {
	switch inst.Op {
	case OpContext:
		if inst.Arg < 0 || inst.Arg >= len(sim.Memory.Processes) {
			return fmt.Errorf("process %d out of range [0, %d)", inst.Arg, len(sim.Memory.Processes))
		}
	case OpRead, OpWrite:
		if sim.current == nil {
			return fmt.Errorf("memory access before the first context switch")
		}
		if inst.Arg < 0 || inst.Arg >= PageTableSize {
			return fmt.Errorf("page %d out of range [0, %d)", inst.Arg, PageTableSize)
		}
	default:
		return fmt.Errorf("unknown opcode %q", inst.Op)
	}
	return nil
}

// access runs the fault-resolution state machine for one page access of the current process.
func (sim *Simulator) access(seq uint64, page int, write bool) error {
	proc := sim.current
	pte := proc.PTE(page)

	if !pte.Valid {
		sim.emit(seq, page, Event{Kind: EventSegv})
		proc.Stats.SegvFaults++
		sim.Stats.Reads++
		return nil
	}

	if !pte.FrameAssigned {
		frame, err := sim.acquireFrame()
		if err != nil {
			return err
		}
		if !frame.Free() {
			sim.evict(seq, page, frame)
		}
		sim.provision(seq, page, pte)

		sim.emit(seq, page, Event{Kind: EventMap, Frame: frame.Number})
		proc.Stats.Maps++
		pte.FrameAssigned = true
		pte.FrameIndex = frame.Number
		frame.ProcessID = proc.ID
		frame.Page = page
		logrus.Debugf("[%d] mapped %d:%d to frame %d", seq, proc.ID, page, frame.Number)
	}

	pte.Referenced = true
	if !write {
		sim.Stats.Reads++
		return nil
	}
	if pte.WriteProtected {
		sim.emit(seq, page, Event{Kind: EventSegprot})
		proc.Stats.SegprotFaults++
		sim.Stats.Reads++
		return nil
	}
	pte.Modified = true
	sim.Stats.Writes++
	return nil
}

// acquireFrame takes a never-used frame if one remains, else asks the pager for a victim.
func (sim *Simulator) acquireFrame() (*Frame, error) {
	if f, ok := sim.Pool.Allocate(); ok {
		return f, nil
	}
	f := sim.Pager.SelectVictim(sim.Memory)
	if f == nil {
		return nil, fmt.Errorf("pager %T returned no victim", sim.Pager)
	}
	if f.Free() {
		return nil, fmt.Errorf("pager %T returned free frame %d", sim.Pager, f.Number)
	}
	return f, nil
}

// evict breaks the binding between frame and its current owner, writing the page back
// if it was modified.
func (sim *Simulator) evict(seq uint64, page int, frame *Frame) {
	owner := sim.Memory.Processes[frame.ProcessID]
	victim := owner.PTE(frame.Page)
	unmap := Event{Kind: EventUnmap, Frame: frame.Number, Process: owner.ID, Page: frame.Page}

	sim.emit(seq, page, unmap)
	owner.Stats.Unmaps++
	victim.FrameAssigned = false

	if victim.Modified {
		if victim.FileMapped {
			sim.emit(seq, page, Event{Kind: EventFileOut, Frame: frame.Number, Process: owner.ID, Page: frame.Page})
			owner.Stats.FileOuts++
		} else {
			sim.emit(seq, page, Event{Kind: EventOut, Frame: frame.Number, Process: owner.ID, Page: frame.Page})
			victim.PagedOut = true
			owner.Stats.PageOuts++
		}
	}
	logrus.Debugf("[%d] evicted %d:%d from frame %d", seq, owner.ID, unmap.Page, frame.Number)
}

// provision fills the frame with the faulting page's content.
func (sim *Simulator) provision(seq uint64, page int, pte *PTE) {
	stats := &sim.current.Stats
	switch {
	case pte.FileMapped:
		pte.Referenced = false
		pte.Modified = false
		sim.emit(seq, page, Event{Kind: EventFileIn})
		stats.FileIns++
	case pte.PagedOut:
		pte.Referenced = false
		pte.Modified = false
		sim.emit(seq, page, Event{Kind: EventIn})
		stats.PageIns++
	default:
		sim.emit(seq, page, Event{Kind: EventZero})
		stats.ZeroFills++
	}
}

// emit forwards ev to observers and the trace.
func (sim *Simulator) emit(seq uint64, page int, ev Event) {
	for _, o := range sim.observers {
		o.OnEvent(seq, ev)
	}
	if !sim.Trace.Enabled() {
		return
	}
	rec := trace.FaultRecord{
		Instruction:   seq,
		Process:       sim.current.ID,
		Page:          page,
		Kind:          string(ev.Kind),
		Frame:         -1,
		VictimProcess: -1,
		VictimPage:    -1,
	}
	switch ev.Kind {
	case EventMap:
		rec.Frame = ev.Frame
	case EventUnmap, EventOut, EventFileOut:
		rec.Frame = ev.Frame
		rec.VictimProcess = ev.Process
		rec.VictimPage = ev.Page
	}
	sim.Trace.RecordFault(rec)
}
