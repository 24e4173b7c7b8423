package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gameframework/pkg/domain"
)

// settingRecord is a minimal record holding one named level.
type settingRecord struct {
	name  string
	level float64
	fills int
}

func newSetting(name string, level float64) *settingRecord {
	return &settingRecord{name: name, level: level}
}

func (r *settingRecord) SerializableData() domain.RecordData {
	data := domain.NewRecordData("setting", 1)
	data.Set("name", r.name)
	data.Set("level", r.level)
	return data
}

func (r *settingRecord) FillFromSerializableData(data domain.RecordData) {
	r.fills++
	if v, ok := data.FloatValue("level"); ok {
		r.level = v
	}
}

// catalogRecord exposes one archetype slot through domain.ArchetypeSlotProvider.
type catalogRecord struct {
	slot string
	list *domain.ArchetypeList
}

func (r *catalogRecord) SerializableData() domain.RecordData {
	data := domain.NewRecordData("catalog", 1)
	data.Set("archetypes", r.list.Values())
	return data
}

func (r *catalogRecord) FillFromSerializableData(data domain.RecordData) {
	r.list.Reset(domain.ArchetypesFromValue(data.Values["archetypes"])...)
}

func (r *catalogRecord) ArchetypeSlots() []domain.ArchetypeSlot {
	return []domain.ArchetypeSlot{{Name: r.slot, Operations: r.list}}
}

func settingsDatabase(levels ...float64) (*Database, []*settingRecord) {
	db := NewDatabase("settings")
	recs := make([]*settingRecord, len(levels))
	for i, level := range levels {
		recs[i] = newSetting(fmt.Sprintf("s%d", i), level)
		_ = db.Append(recs[i])
	}
	return db, recs
}

func snapshotOf(levels ...float64) *domain.Snapshot {
	snap := &domain.Snapshot{ID: "snap", Records: []domain.RecordData{}}
	for i, level := range levels {
		snap.Records = append(snap.Records, newSetting(fmt.Sprintf("s%d", i), level).SerializableData())
	}
	return snap
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.log("error", msg, args) }

// find returns the first entry at level whose message contains substr.
func (l *captureLogger) find(level, substr string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			return e, true
		}
	}
	return logEntry{}, false
}

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func argValue(e logEntry, key string) (any, bool) {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1], true
		}
	}
	return nil, false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

// stubAdapter fails on demand and otherwise behaves like an empty store.
type stubAdapter struct {
	produceErr error
	loadErr    error
	restoreErr error
	loaded     domain.SerializableData
	produced   int
}

func (s *stubAdapter) ProduceSnapshot(_ context.Context, target domain.Target) (domain.SerializableData, error) {
	s.produced++
	if s.produceErr != nil {
		return nil, s.produceErr
	}
	return target.SerializableData(), nil
}

func (s *stubAdapter) LoadSnapshot(context.Context) (domain.SerializableData, error) {
	return s.loaded, s.loadErr
}

func (s *stubAdapter) RestoreFromSnapshot(_ context.Context, target domain.Target, data domain.SerializableData) error {
	if s.restoreErr != nil {
		return s.restoreErr
	}
	target.InitializeData(data)
	return nil
}
