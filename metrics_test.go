package alloc

import "testing"

func TestArenaMetrics(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	a.AllocBytes(32)
	m := a.Metrics()

	if m.Capacity != 64 {
		t.Errorf("Capacity = %d, want 64", m.Capacity)
	}
	if m.NumChunks != 1 {
		t.Errorf("NumChunks = %d, want 1", m.NumChunks)
	}
	if m.SizeInUse != 32 {
		t.Errorf("SizeInUse = %d, want 32", m.SizeInUse)
	}
	if m.ChunkSize != 64 {
		t.Errorf("ChunkSize = %d, want 64", m.ChunkSize)
	}
	want := float64(32) / float64(64)
	if m.Utilization != want {
		t.Errorf("Utilization = %v, want %v", m.Utilization, want)
	}
}

func TestArenaUtilizationEmpty(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	if u := a.Utilization(); u != 0 {
		t.Errorf("Utilization() on fresh arena = %v, want 0", u)
	}
}

func TestSafeArenaMetrics(t *testing.T) {
	s := NewSafeArena(64)
	defer s.Release()

	s.AllocBytes(16)
	m := s.Metrics()
	if m.SizeInUse != 16 {
		t.Errorf("SizeInUse = %d, want 16", m.SizeInUse)
	}
	if m.Capacity != 64 {
		t.Errorf("Capacity = %d, want 64", m.Capacity)
	}
}
