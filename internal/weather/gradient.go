package weather

import (
	"fmt"
	"strings"
	"time"
)

// Gradient is a page background, expressed both as Tailwind utility
// classes and as plain CSS colour stops.
type Gradient struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// CSS returns a linear-gradient value usable in a style attribute
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(to bottom right, %s, %s)", g.From, g.To)
}

var (
	GradientNight   = Gradient{Name: "night", Class: "from-blue-900 to-purple-900", From: "#1e3a8a", To: "#581c87"}
	GradientClear   = Gradient{Name: "clear", Class: "from-blue-400 to-cyan-300", From: "#60a5fa", To: "#67e8f9"}
	GradientRain    = Gradient{Name: "rain", Class: "from-blue-700 to-blue-900", From: "#1d4ed8", To: "#1e3a8a"}
	GradientClouds  = Gradient{Name: "clouds", Class: "from-gray-400 to-gray-600", From: "#9ca3af", To: "#4b5563"}
	GradientDefault = Gradient{Name: "default", Class: "from-blue-500 to-purple-600", From: "#3b82f6", To: "#9333ea"}
)

// BackgroundGradient picks the page background for the current conditions.
// No data and night both use the dark gradient regardless of condition.
func BackgroundGradient(s *Snapshot, now time.Time) Gradient {
	if s == nil || s.IsNightAt(now) {
		return GradientNight
	}

	switch strings.ToLower(s.Condition) {
	case "clear":
		return GradientClear
	case "rain":
		return GradientRain
	case "clouds":
		return GradientClouds
	default:
		return GradientDefault
	}
}
