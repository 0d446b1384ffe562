package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRecent(t *testing.T) {
	store := openTestStore(t)

	rides := []Ride{
		{Level: 1, Result: ResultComplete, Elapsed: 30, AvgRPM: 90, Distance: 1800},
		{Level: 2, Result: ResultGameOver, Reason: "hazard", Elapsed: 12, AvgRPM: 70, Distance: 700},
		{Rider: "alice", Level: 1, Result: ResultComplete, Elapsed: 25, AvgRPM: 110, Distance: 1800},
	}
	for _, r := range rides {
		if _, err := store.SaveRide(r); err != nil {
			t.Fatalf("SaveRide() failed: %v", err)
		}
	}

	all, err := store.RecentRides("", 10)
	if err != nil {
		t.Fatalf("RecentRides() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 rides, got %d", len(all))
	}
	// Newest first
	if all[0].Rider != "alice" || all[2].Level != 1 {
		t.Errorf("Rides not in expected order: %+v", all)
	}
	if all[1].Reason != "hazard" || all[1].Finished() {
		t.Errorf("Game over ride stored wrong: %+v", all[1])
	}

	local, err := store.RecentRides("local", 10)
	if err != nil {
		t.Fatalf("RecentRides() failed: %v", err)
	}
	if len(local) != 2 {
		t.Errorf("Expected 2 rides for the default rider, got %d", len(local))
	}
}

func TestStoreRecentRidesLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRide(Ride{Level: i + 1, Result: ResultComplete, Elapsed: 10})
	}

	rides, err := store.RecentRides("", 3)
	if err != nil {
		t.Fatalf("RecentRides() failed: %v", err)
	}
	if len(rides) != 3 {
		t.Fatalf("Expected 3 rides with limit, got %d", len(rides))
	}
	if rides[0].Level != 5 || rides[2].Level != 3 {
		t.Errorf("Expected levels 5,4,3, got %d,%d,%d", rides[0].Level, rides[1].Level, rides[2].Level)
	}
}

func TestStoreBestTimes(t *testing.T) {
	store := openTestStore(t)

	store.SaveRide(Ride{Level: 1, Result: ResultComplete, Elapsed: 40})
	store.SaveRide(Ride{Rider: "bob", Level: 1, Result: ResultComplete, Elapsed: 31.5})
	store.SaveRide(Ride{Level: 1, Result: ResultGameOver, Reason: "timeout", Elapsed: 5})
	store.SaveRide(Ride{Level: 3, Result: ResultVictory, Elapsed: 55})
	store.SaveRide(Ride{Level: 2, Result: ResultGameOver, Reason: "fell", Elapsed: 8})

	bests, err := store.BestTimes()
	if err != nil {
		t.Fatalf("BestTimes() failed: %v", err)
	}

	if len(bests) != 2 {
		t.Fatalf("Expected best times for 2 finished levels, got %+v", bests)
	}
	if bests[0].Level != 1 || bests[0].Elapsed != 31.5 || bests[0].Rider != "bob" {
		t.Errorf("Level 1 best should be bob's 31.5s, got %+v", bests[0])
	}
	if bests[1].Level != 3 || bests[1].Elapsed != 55 {
		t.Errorf("Level 3 best should be 55s, got %+v", bests[1])
	}

	tests := []struct {
		level    int
		expected float64
	}{
		{1, 31.5},
		{2, 0},
		{3, 55},
		{9, 0},
	}
	for _, tc := range tests {
		best, err := store.BestTime(tc.level)
		if err != nil {
			t.Fatalf("BestTime(%d) failed: %v", tc.level, err)
		}
		if best != tc.expected {
			t.Errorf("BestTime(%d) = %v, expected %v", tc.level, best, tc.expected)
		}
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	// No rides yet
	stats, err := store.Stats("")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Rides != 0 || !stats.LastRide.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveRide(Ride{Level: 1, Result: ResultComplete, Elapsed: 30, AvgRPM: 100, Distance: 1000})
	store.SaveRide(Ride{Level: 2, Result: ResultGameOver, Reason: "hazard", Elapsed: 10, AvgRPM: 0, Distance: 0})
	store.SaveRide(Ride{Level: 2, Result: ResultComplete, Elapsed: 20, AvgRPM: 80, Distance: 2000})
	store.SaveRide(Ride{Rider: "carol", Level: 1, Result: ResultComplete, Elapsed: 99, AvgRPM: 50, Distance: 1000})

	stats, err = store.Stats("local")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Rides != 3 || stats.Finished != 2 {
		t.Errorf("Expected 3 rides / 2 finished, got %d / %d", stats.Rides, stats.Finished)
	}
	if stats.TotalTime != 60 || stats.TotalDistance != 3000 {
		t.Errorf("Expected 60s / 3000 units, got %v / %v", stats.TotalTime, stats.TotalDistance)
	}
	// Rides without a cadence do not drag the average down
	if stats.AvgRPM != 90 {
		t.Errorf("Expected avg rpm 90, got %v", stats.AvgRPM)
	}
	if stats.LastRide.IsZero() {
		t.Error("LastRide should be set")
	}

	everyone, err := store.Stats("")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if everyone.Rides != 4 {
		t.Errorf("Expected 4 rides overall, got %d", everyone.Rides)
	}
}

func TestStoreClearRides(t *testing.T) {
	store := openTestStore(t)

	store.SaveRide(Ride{Level: 1, Result: ResultComplete, Elapsed: 30})
	store.SaveRide(Ride{Rider: "dave", Level: 1, Result: ResultComplete, Elapsed: 20})

	if err := store.ClearRides("local"); err != nil {
		t.Fatalf("ClearRides() failed: %v", err)
	}

	local, _ := store.RecentRides("local", 10)
	if len(local) != 0 {
		t.Errorf("Expected 0 local rides after clear, got %d", len(local))
	}
	dave, _ := store.RecentRides("dave", 10)
	if len(dave) != 1 {
		t.Error("Other riders should not be affected by clearing local")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
