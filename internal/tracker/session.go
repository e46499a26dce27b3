package tracker

import "time"

// Finalize closes the slice at end and fixes its duration.
func (s *SessionSlice) Finalize(end time.Time) {
	if end.IsZero() {
		end = time.Now()
	}
	s.End = end
	s.Duration = end.Sub(s.Start).Milliseconds()
	if s.Duration < 0 {
		s.Duration = 0
	}
}

// AppendSlice records a finished active interval and accumulates its duration.
func (t *TabSession) AppendSlice(start, end time.Time) {
	slice := SessionSlice{Start: start}
	slice.Finalize(end)
	t.Sessions = append(t.Sessions, slice)
	t.TotalTime += slice.Duration
}

// LastSeen reports the end of the most recent slice.
func (t *TabSession) LastSeen() time.Time {
	if len(t.Sessions) == 0 {
		return time.Time{}
	}
	return t.Sessions[len(t.Sessions)-1].End
}

// Clone returns a deep copy so snapshots never alias tracker-owned memory.
func (t *TabSession) Clone() *TabSession {
	c := &TabSession{
		URL:       t.URL,
		Domain:    t.Domain,
		TotalTime: t.TotalTime,
	}
	if len(t.Sessions) > 0 {
		c.Sessions = make([]SessionSlice, len(t.Sessions))
		copy(c.Sessions, t.Sessions)
	}
	return c
}

// Clone deep-copies the whole tab map.
func (d TabData) Clone() TabData {
	out := make(TabData, len(d))
	for id, tab := range d {
		out[id] = tab.Clone()
	}
	return out
}
