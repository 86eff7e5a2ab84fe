package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	BufferSize     int           // retained entries served to the dashboard panel
	TimeInterval   time.Duration // flush interval for the publisher; 0 disables flushing
	CountThreshold int           // max unique aggregated logs before an early flush
	Topic          string        // topic aggregated logs are published to
	Publisher      Publisher     // nil keeps collection local only
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector retains warn and error entries for the dashboard log panel.
// Entries live in a fixed-size ring; identical entries are aggregated by
// content hash and optionally flushed to a publisher in batches.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	ring   []*AggregatedLogEntry
	next   int
	mutex  sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.BufferSize <= 0 {
		config.BufferSize = 500
	}
	ctx, cancel := context.WithCancel(context.Background())

	collector := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ring:   make([]*AggregatedLogEntry, config.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	if config.Publisher != nil && config.TimeInterval > 0 {
		collector.wg.Add(1)
		go collector.periodicFlush()
	}

	return collector
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := d.generateKey(level, message, fields, caller)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if entry, exists := d.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
		return
	}

	entry := &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	d.logMap[key] = entry
	d.ring[d.next] = entry
	d.next = (d.next + 1) % len(d.ring)

	if d.config.CountThreshold > 0 && len(d.logMap) >= d.config.CountThreshold {
		d.flushLogs()
	}
}

// Recent returns up to limit retained entries, newest first.
func (d *LogCollector) Recent(limit int) []AggregatedLogEntry {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if limit <= 0 || limit > len(d.ring) {
		limit = len(d.ring)
	}
	out := make([]AggregatedLogEntry, 0, limit)
	for i := 0; i < len(d.ring) && len(out) < limit; i++ {
		idx := (d.next - 1 - i + len(d.ring)) % len(d.ring)
		if d.ring[idx] == nil {
			break
		}
		out = append(out, *d.ring[idx])
	}
	return out
}

func (d *LogCollector) generateKey(level, message string, fields map[string]interface{}, caller string) string {
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) periodicFlush() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.mutex.Lock()
			if len(d.logMap) > 0 {
				d.flushLogs()
			}
			d.mutex.Unlock()
		case <-d.ctx.Done():
			// Final flush before shutdown
			d.mutex.Lock()
			if len(d.logMap) > 0 {
				d.flushLogs()
			}
			d.mutex.Unlock()
			return
		}
	}
}

// flushLogs publishes the aggregation map and resets it. The ring is left
// untouched so the dashboard keeps its history. Caller holds the mutex.
func (d *LogCollector) flushLogs() {
	if len(d.logMap) == 0 || d.config.Publisher == nil {
		return
	}

	logs := make([]AggregatedLogEntry, 0, len(d.logMap))
	for _, entry := range d.logMap {
		logs = append(logs, *entry)
	}

	d.logMap = make(map[string]*AggregatedLogEntry)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.config.Publisher.PublishMessage(ctx, d.config.Topic, logs); err != nil {
			fmt.Printf("Failed to send aggregated logs: %v\n", err)
		}
	}()
}

func (d *LogCollector) Close() {
	d.cancel()
	d.wg.Wait()
}
