package testutil

import (
	"context"
	"sync"
	"time"

	"rvd/internal/bot"
	"rvd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockTransport implements bot.Transport and records every outbound call.
// Message IDs are handed out sequentially starting at 1001.
type MockTransport struct {
	mu     sync.Mutex
	nextID int

	Sent      []SentMessage
	Locations []LocationCall
	Edits     []EditCall
	Plain     []PlainCall
	Prompts   []PlainCall
	Removals  []PlainCall

	// FailSendTo and FailEditTo inject per-destination failures.
	FailSendTo map[int64]error
	FailEditTo map[int64]error
}

type SentMessage struct {
	DestinationID int64
	ThreadID      int
	Text          string
	Buttons       [][]bot.Button
	MessageID     int
}

type LocationCall struct {
	DestinationID int64
	ThreadID      int
	Lat           float64
	Lon           float64
}

type EditCall struct {
	DestinationID int64
	MessageID     int
	Text          string
	Buttons       [][]bot.Button
}

type PlainCall struct {
	DestinationID int64
	Text          string
}

func (m *MockTransport) Send(destinationID int64, threadID int, text string, buttons [][]bot.Button) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailSendTo[destinationID]; ok {
		return 0, err
	}
	m.nextID++
	id := 1000 + m.nextID
	m.Sent = append(m.Sent, SentMessage{
		DestinationID: destinationID,
		ThreadID:      threadID,
		Text:          text,
		Buttons:       buttons,
		MessageID:     id,
	})
	return id, nil
}

func (m *MockTransport) SendLocation(destinationID int64, threadID int, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailSendTo[destinationID]; ok {
		return err
	}
	m.Locations = append(m.Locations, LocationCall{DestinationID: destinationID, ThreadID: threadID, Lat: lat, Lon: lon})
	return nil
}

func (m *MockTransport) Edit(destinationID int64, messageID int, text string, buttons [][]bot.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailEditTo[destinationID]; ok {
		return err
	}
	m.Edits = append(m.Edits, EditCall{DestinationID: destinationID, MessageID: messageID, Text: text, Buttons: buttons})
	return nil
}

func (m *MockTransport) SendPlain(destinationID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailSendTo[destinationID]; ok {
		return err
	}
	m.Plain = append(m.Plain, PlainCall{DestinationID: destinationID, Text: text})
	return nil
}

func (m *MockTransport) PromptLocation(destinationID int64, text, buttonText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, PlainCall{DestinationID: destinationID, Text: text})
	return nil
}

func (m *MockTransport) ReplyRemoveKeyboard(destinationID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removals = append(m.Removals, PlainCall{DestinationID: destinationID, Text: text})
	return nil
}

// SentTo returns the recorded sends for one destination.
func (m *MockTransport) SentTo(destinationID int64) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMessage
	for _, s := range m.Sent {
		if s.DestinationID == destinationID {
			out = append(out, s)
		}
	}
	return out
}

// EditCount returns how many edits were recorded in total.
func (m *MockTransport) EditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Edits)
}

// MockResolver implements geocode.Resolver with a fixed answer.
type MockResolver struct {
	mu      sync.Mutex
	Address string
	Err     error
	Calls   int
}

func (m *MockResolver) Resolve(_ context.Context, _, _ float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Address, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu sync.Mutex

	Requests        int
	CacheHits       int
	CacheMisses     int
	Created         int
	Deduplicated    int
	Votes           map[string]int
	BroadcastSends  map[string]int
	ResyncFailures  int
	Purged          int
	PersistObserved int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncReportsIngested(deduplicated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if deduplicated {
		m.Deduplicated++
	} else {
		m.Created++
	}
}

func (m *MockMetrics) IncVotes(verdict string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Votes == nil {
		m.Votes = make(map[string]int)
	}
	m.Votes[verdict]++
}

func (m *MockMetrics) IncBroadcastSends(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BroadcastSends == nil {
		m.BroadcastSends = make(map[string]int)
	}
	m.BroadcastSends[result]++
}

func (m *MockMetrics) IncResyncFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResyncFailures++
}

func (m *MockMetrics) AddReportsPurged(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purged += count
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistObserved++
}
