package sim

// MaxFrames bounds the physical memory size (7-bit frame index).
const MaxFrames = 128

// Frame is one physical frame slot. It reverse-maps to the resident (process, page).
type Frame struct {
	Number    int // index in the frame table, immutable
	ProcessID int // owning process, -1 while the frame is free
	Page      int // owning virtual page, -1 while the frame is free
}

// Free reports whether the frame has never been mapped.
func (f *Frame) Free() bool {
	return f.ProcessID == -1
}

// FramePool hands out never-used frames in ascending frame order.
type FramePool struct {
	frames []*Frame
	next   int
}

// NewFramePool creates a pool over the given frame table, all frames unused.
func NewFramePool(frames []*Frame) *FramePool {
	return &FramePool{frames: frames}
}

// Allocate returns the next never-used frame, or false once the pool is exhausted.
func (fp *FramePool) Allocate() (*Frame, bool) {
	if fp.next >= len(fp.frames) {
		return nil, false
	}
	f := fp.frames[fp.next]
	fp.next++
	return f, true
}

// Exhausted reports whether every frame has been handed out at least once.
func (fp *FramePool) Exhausted() bool {
	return fp.next >= len(fp.frames)
}

// Memory is the arena pagers inspect: the frame table plus all processes, cross-referenced
// by index (Frame.ProcessID indexes Processes, PTE.FrameIndex indexes Frames).
type Memory struct {
	Frames    []*Frame
	Processes []*Process
}

// NewMemory creates a frame table of numFrames free frames over the given processes.
func NewMemory(numFrames int, processes []*Process) *Memory {
	frames := make([]*Frame, numFrames)
	for i := range frames {
		frames[i] = &Frame{Number: i, ProcessID: -1, Page: -1}
	}
	return &Memory{Frames: frames, Processes: processes}
}

// Owner returns the PTE currently bound to f, or nil if f is free.
func (m *Memory) Owner(f *Frame) *PTE {
	if f.Free() {
		return nil
	}
	return m.Processes[f.ProcessID].PTE(f.Page)
}
