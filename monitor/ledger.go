package monitor

// ViolationStats returns a snapshot copy of the per-user violation counts.
// The live map never leaves the monitor.
func (m *Monitor) ViolationStats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.violations))
	for user, n := range m.violations {
		out[user] = n
	}
	return out
}

// RestrictedZoneCount returns the number of currently registered zones.
func (m *Monitor) RestrictedZoneCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.zones)
}

// ZoneIDs returns a snapshot of the registered zone ids, for reporting.
func (m *Monitor) ZoneIDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.zones))
	for id := range m.zones {
		ids = append(ids, id)
	}
	return ids
}
