package core

// DefaultProgressInterval is the number of records between progress reports.
const DefaultProgressInterval = 25000

// Progress operations.
const (
	OpRead  = "read"
	OpWrote = "wrote"
)

// ProgressEvent is delivered to a ProgressFunc at record-count milestones.
type ProgressEvent struct {
	Op     string // OpRead or OpWrote
	Format string
	Count  int
	Done   bool // final report of the call
}

// ProgressFunc observes parse and write progress.
type ProgressFunc func(ProgressEvent)

// Progress reports milestones to an optional observer.
type Progress struct {
	Func     ProgressFunc
	Interval int // <= 0 disables intermediate reports
	Op       string
	Format   string
}

// Step reports count if it falls on the interval.
func (p Progress) Step(count int) {
	if p.Func == nil || p.Interval <= 0 || count == 0 || count%p.Interval != 0 {
		return
	}
	p.Func(ProgressEvent{Op: p.Op, Format: p.Format, Count: count})
}

// Finish reports the final count.
func (p Progress) Finish(count int) {
	if p.Func == nil {
		return
	}
	p.Func(ProgressEvent{Op: p.Op, Format: p.Format, Count: count, Done: true})
}
