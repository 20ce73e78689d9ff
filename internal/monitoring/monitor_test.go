package monitoring

import (
	"testing"
	"time"
)

func TestMonitor_SnapshotBeforeAnyCraft(t *testing.T) {
	m := NewMonitor()

	stats := m.Snapshot()

	if _, exists := stats["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in stats, but it was not")
	}
	if _, exists := stats["last_craft_outcome"]; exists {
		t.Errorf("Expected no 'last_craft_outcome' before any craft, got %v", stats["last_craft_outcome"])
	}
}

func TestMonitor_RecordCraft(t *testing.T) {
	m := NewMonitor()
	at := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	m.RecordCraft("crafted", 9)
	m.RecordCraft("insufficient", 2)
	m.RecordCraft("crafted", 11)

	stats := m.Snapshot()

	if stats["last_craft_outcome"] != "crafted" {
		t.Errorf("Expected last_craft_outcome 'crafted', got %v", stats["last_craft_outcome"])
	}
	if stats["last_craft_matched"] != 11 {
		t.Errorf("Expected last_craft_matched 11, got %v", stats["last_craft_matched"])
	}
	if stats["last_craft_at"] != "2024-03-04T09:00:00Z" {
		t.Errorf("Expected last_craft_at 2024-03-04T09:00:00Z, got %v", stats["last_craft_at"])
	}
	if stats["crafts_crafted"] != 2 {
		t.Errorf("Expected crafts_crafted 2, got %v", stats["crafts_crafted"])
	}
	if got := m.Crafts("insufficient"); got != 1 {
		t.Errorf("Expected 1 insufficient craft, got %d", got)
	}
}

func TestMonitor_SnapshotIsACopy(t *testing.T) {
	m := NewMonitor()
	m.RecordCraft("crafted", 3)

	stats := m.Snapshot()
	stats["crafts_crafted"] = 0

	if got := m.Crafts("crafted"); got != 1 {
		t.Errorf("Snapshot should be a copy, but the monitor now holds %d", got)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordCraft("error", 0)

	m.Reset()

	stats := m.Snapshot()
	if _, exists := stats["crafts_error"]; exists {
		t.Errorf("Expected 'crafts_error' to be removed after Reset(), but it was present")
	}
	if _, exists := stats["last_craft_at"]; exists {
		t.Errorf("Expected 'last_craft_at' to be removed after Reset(), but it was present")
	}
	if _, exists := stats["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in stats, but it was not")
	}
}
