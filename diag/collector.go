package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Collector accumulates Diagnostics produced during one validate pass (the
// parser collects its own syntax diagnostics into a plain slice) and is safe for concurrent use, matching the spec §5 allowance that
// a Validator may be driven from multiple goroutines validating distinct
// documents against the same read-only DictionaryModel (each validate run
// owns its own Collector).
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	errorCount  int
	warnCount   int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends d to the collector. It panics if d was not produced by
// NewError or NewWarning: an unbuilt Diagnostic reaching a Collector is
// always a programmer error in this package's own callers (cif, dict,
// validate), never caller-supplied data.
func (c *Collector) Add(d Diagnostic) {
	if !d.built {
		panic("diag: Collector.Add called with a Diagnostic not produced by NewError/NewWarning")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
	switch d.Severity() {
	case SeverityError:
		c.errorCount++
	case SeverityWarning:
		c.warnCount++
	}
}

// ErrorCount returns the number of error-severity diagnostics added so far.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCount
}

// WarningCount returns the number of warning-severity diagnostics added so
// far.
func (c *Collector) WarningCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warnCount
}

// Result freezes the collector's contents into a deterministically ordered,
// immutable Result.
func (c *Collector) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	sorted := make([]Diagnostic, len(c.diagnostics))
	copy(sorted, c.diagnostics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].span.Start.Before(sorted[j].span.Start)
	})
	return Result{
		diagnostics: sorted,
		errorCount:  c.errorCount,
		warnCount:   c.warnCount,
	}
}

func (c *Collector) String() string {
	return fmt.Sprintf("diag.Collector{errors=%d, warnings=%d}", c.ErrorCount(), c.WarningCount())
}
