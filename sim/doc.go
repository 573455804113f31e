// Package sim provides the core virtual-memory simulation engine of vmsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - pte.go: page table entries, VMAs, processes and their counters
//   - frame.go: the frame table, the free pool and the Memory arena pagers inspect
//   - simulator.go: the fault-resolution state machine (Step / Run)
//
// # Fault resolution
//
// A non-resident valid page takes a frame from the FramePool while any remain, then from
// the active Pager. A frame that still holds another page is unmapped first (UNMAP, then
// OUT or FOUT if the victim was modified), the new content is provisioned (FIN, IN or ZERO)
// and the page is mapped (MAP). Frame.ProcessID/Page and PTE.FrameAssigned/FrameIndex are
// the two halves of one binding and always agree between instructions.
//
// # Key Interfaces
//
//   - Pager: victim selection (fifo, second-chance, random, nru, clock, aging)
//   - NumberSource: deterministic values for the random and nru pagers
//   - InstructionSource: the instruction script
//   - Observer: per-instruction and per-event progress (see Printer in report.go)
//
// Sub-packages:
//   - sim/workload/: input parsing (classic text format, YAML scenarios, random files)
//   - sim/trace/: fault trace records, summaries and SQLite persistence
package sim
