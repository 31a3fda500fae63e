package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing process-local count.
type Counter struct {
	v atomic.Int64
}

func (c *Counter) Inc()         { c.v.Add(1) }
func (c *Counter) Add(n int64)  { c.v.Add(n) }
func (c *Counter) Value() int64 { return c.v.Load() }

// CounterVec is a labeled family of counters.
type CounterVec struct {
	mu sync.Mutex
	m  map[string]*Counter
}

func newCounterVec() *CounterVec {
	return &CounterVec{m: map[string]*Counter{}}
}

func (cv *CounterVec) With(labels ...string) *Counter {
	key := strings.Join(labels, "|")
	cv.mu.Lock()
	defer cv.mu.Unlock()
	c, ok := cv.m[key]
	if !ok {
		c = &Counter{}
		cv.m[key] = c
	}
	return c
}

func (cv *CounterVec) Snapshot() map[string]int64 {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	out := make(map[string]int64, len(cv.m))
	for k, c := range cv.m {
		out[k] = c.Value()
	}
	return out
}

// Metrics is the process-wide registry. Nil-safe: every method checks the
// receiver so call sites can use Current() without guarding.
type Metrics struct {
	llmRequests        *CounterVec // model|status
	llmLatencyMillis   *Counter
	schemaUnmapped     *Counter
	generationAttempts *Counter
	generationFailures *Counter
	duplicateRejects   *Counter
	rowsPruned         *Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Init() *Metrics {
	initOnce.Do(func() {
		instance = &Metrics{
			llmRequests:        newCounterVec(),
			llmLatencyMillis:   &Counter{},
			schemaUnmapped:     &Counter{},
			generationAttempts: &Counter{},
			generationFailures: &Counter{},
			duplicateRejects:   &Counter{},
			rowsPruned:         &Counter{},
		}
	})
	return instance
}

func Current() *Metrics { return instance }

func (m *Metrics) ObserveLLMRequest(model, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.With(model, status).Inc()
	m.llmLatencyMillis.Add(elapsed.Milliseconds())
}

// IncSchemaUnmapped records a schema label the normalizer could not map.
// Unmapped labels are dropped silently at the call site; this counter is
// the only place the loss is visible.
func (m *Metrics) IncSchemaUnmapped() {
	if m == nil {
		return
	}
	m.schemaUnmapped.Inc()
}

func (m *Metrics) SchemaUnmappedTotal() int64 {
	if m == nil {
		return 0
	}
	return m.schemaUnmapped.Value()
}

func (m *Metrics) IncGenerationAttempt() {
	if m == nil {
		return
	}
	m.generationAttempts.Inc()
}

func (m *Metrics) IncGenerationFailure() {
	if m == nil {
		return
	}
	m.generationFailures.Inc()
}

func (m *Metrics) IncDuplicateReject() {
	if m == nil {
		return
	}
	m.duplicateRejects.Inc()
}

func (m *Metrics) AddRowsPruned(n int64) {
	if m == nil {
		return
	}
	m.rowsPruned.Add(n)
}

// Summary renders a stable key=value dump for batch-run footers.
func (m *Metrics) Summary() []string {
	if m == nil {
		return nil
	}
	out := []string{}
	for k, v := range m.llmRequests.Snapshot() {
		out = append(out, "llm_requests{"+k+"}="+itoa(v))
	}
	out = append(out,
		"schema_unmapped_total="+itoa(m.schemaUnmapped.Value()),
		"generation_attempts_total="+itoa(m.generationAttempts.Value()),
		"generation_failures_total="+itoa(m.generationFailures.Value()),
		"duplicate_rejects_total="+itoa(m.duplicateRejects.Value()),
		"rows_pruned_total="+itoa(m.rowsPruned.Value()),
	)
	sort.Strings(out)
	return out
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
