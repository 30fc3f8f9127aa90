package weather

import (
	"html/template"
	"strings"
)

// Icon identifies a weather condition illustration
type Icon string

const (
	IconClear        Icon = "clear"
	IconClouds       Icon = "clouds"
	IconRain         Icon = "rain"
	IconSnow         Icon = "snow"
	IconThunderstorm Icon = "thunderstorm"
	IconDrizzle      Icon = "drizzle"
	IconNight        Icon = "night"
)

// SelectIcon maps a condition category to an icon. At night clear and
// cloudy skies show the moon; unknown conditions fall back to clouds.
func SelectIcon(condition string, isNight bool) Icon {
	icon := conditionIcon(condition)
	if isNight && (icon == IconClear || icon == IconClouds) {
		return IconNight
	}
	return icon
}

func conditionIcon(condition string) Icon {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "clear":
		return IconClear
	case "clouds":
		return IconClouds
	case "rain":
		return IconRain
	case "snow":
		return IconSnow
	case "thunderstorm":
		return IconThunderstorm
	case "drizzle":
		return IconDrizzle
	default:
		return IconClouds
	}
}

// Glyph returns a single-character rendering for terminal output
func (i Icon) Glyph() string {
	switch i {
	case IconClear:
		return "☀"
	case IconRain:
		return "☂"
	case IconSnow:
		return "❄"
	case IconThunderstorm:
		return "⚡"
	case IconDrizzle:
		return "☔"
	case IconNight:
		return "☾"
	default:
		return "☁"
	}
}

// svgOpen is shared by all icons; stroke colour comes from CSS currentColor.
const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="weather-icon" aria-hidden="true">`

const cloudPath = `<path d="M17.5 19H9a7 7 0 1 1 6.71-9h1.79a4.5 4.5 0 1 1 0 9Z"/>`

var iconSVG = map[Icon]string{
	IconClear:        `<circle cx="12" cy="12" r="4"/><path d="M12 2v2M12 20v2M4.93 4.93l1.41 1.41M17.66 17.66l1.41 1.41M2 12h2M20 12h2M6.34 17.66l-1.41 1.41M19.07 4.93l-1.41 1.41"/>`,
	IconClouds:       cloudPath,
	IconRain:         `<path d="M4 14.9A7 7 0 1 1 15.71 8h1.79a4.5 4.5 0 0 1 2.5 8.24"/><path d="M16 14v6M8 14v6M12 16v6"/>`,
	IconSnow:         `<path d="M4 14.9A7 7 0 1 1 15.71 8h1.79a4.5 4.5 0 0 1 2.5 8.24"/><path d="M8 15h.01M8 19h.01M12 17h.01M12 21h.01M16 15h.01M16 19h.01"/>`,
	IconThunderstorm: `<path d="M6 16.33A7 7 0 1 1 15.71 8h1.79a4.5 4.5 0 0 1 .88 8.91"/><path d="m13 12-3 5h4l-3 5"/>`,
	IconDrizzle:      `<path d="M4 14.9A7 7 0 1 1 15.71 8h1.79a4.5 4.5 0 0 1 2.5 8.24"/><path d="M8 19v1M8 14v1M16 19v1M16 14v1M12 21v1M12 16v1"/>`,
	IconNight:        `<path d="M12 3a6 6 0 0 0 9 9 9 9 0 1 1-9-9Z"/>`,
}

// SVG returns the icon as inline SVG markup
func (i Icon) SVG() template.HTML {
	body, ok := iconSVG[i]
	if !ok {
		body = cloudPath
	}
	// #nosec G203 -- markup is built only from the constant table above
	return template.HTML(svgOpen + body + `</svg>`)
}
