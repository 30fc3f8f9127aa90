package weather

import "time"

// IsNight reports whether now falls outside the sunrise..sunset window.
// The boundaries themselves count as day.
func IsNight(now, sunrise, sunset time.Time) bool {
	return now.After(sunset) || now.Before(sunrise)
}

// IsNightAt reports whether it is night at the snapshot's location. A nil
// snapshot is treated as night, which matches the default dark background.
func (s *Snapshot) IsNightAt(now time.Time) bool {
	if s == nil {
		return true
	}
	return IsNight(now, s.Sunrise, s.Sunset)
}
