// Package observer implements the Observer subsystem (spec.md §4.5): an
// append-only JSONL observation log, and batch promotion of recurring
// observation groups into pinned instinct synapses.
package observer

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the observation kinds the Synapse Store write path
// shares with the Distillation Pipeline.
type Type string

const (
	TypeUserCorrection  Type = "user_correction"
	TypeErrorResolution Type = "error_resolution"
	TypeWorkflow        Type = "workflow"
	TypeToolPreference  Type = "tool_preference"
)

// Observation is one append-only log record.
type Observation struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"`
	Type      Type           `json:"type"`
	Data      map[string]any `json:"data"`
}

// Observer owns the observation log at path.
type Observer struct {
	path string
}

// New binds an Observer to the observations.jsonl file at path.
func New(path string) *Observer {
	return &Observer{path: path}
}

// Record assigns an id and timestamp to obs and appends it as one JSON
// line to the log. Synchronous and best-effort: any failure is logged,
// never returned, per spec.md §4.5 ("any error is swallowed and
// logged").
func (o *Observer) Record(typ Type, data map[string]any) {
	now := time.Now()
	obs := Observation{
		ID:        "obs_" + timestampSuffix(now) + "_" + randomSuffix(),
		Timestamp: now.UnixMilli(),
		Type:      typ,
		Data:      data,
	}

	line, err := json.Marshal(obs)
	if err != nil {
		log.Printf("observer: marshal observation: %v", err)
		return
	}

	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("observer: open log: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("observer: append observation: %v", err)
	}
}

func timestampSuffix(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// randomSuffix returns a 9-character random suffix, derived from a
// fresh UUID rather than hand-rolled randomness (spec.md §4.5).
func randomSuffix() string {
	id := uuid.New().String()
	return strings.ReplaceAll(id, "-", "")[:9]
}

// readAll loads every observation currently in the log. Malformed
// lines are skipped, never raised.
func (o *Observer) readAll() []Observation {
	f, err := os.Open(o.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var obs []Observation
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var o2 Observation
		if err := json.Unmarshal([]byte(line), &o2); err != nil {
			continue
		}
		obs = append(obs, o2)
	}
	return obs
}

// truncate empties the observation log after a successful batch
// promotion.
func (o *Observer) truncate() error {
	return os.WriteFile(o.path, nil, 0644)
}
