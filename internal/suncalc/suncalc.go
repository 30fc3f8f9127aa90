// internal/suncalc/suncalc.go

// Package suncalc computes sunrise and sunset times for arbitrary coordinates.
// It backs the weather client when the upstream API omits sun times, which
// happens for some stations and for the forecast endpoint.
package suncalc

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// maxCacheEntries bounds the cache; a dashboard rarely sees more than a
// handful of distinct locations per day.
const maxCacheEntries = 256

// SunEventTimes holds the calculated sun event times in UTC
type SunEventTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// cacheKey identifies a location rounded to roughly 1 km and a calendar day
type cacheKey struct {
	lat, lon int64
	date     string
}

// Calculator handles caching and calculation of sun event times
type Calculator struct {
	cache map[cacheKey]SunEventTimes
	lock  sync.RWMutex
}

// NewCalculator creates a new Calculator instance
func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[cacheKey]SunEventTimes)}
}

func keyFor(latitude, longitude float64, date time.Time) cacheKey {
	return cacheKey{
		lat:  int64(math.Round(latitude * 100)),
		lon:  int64(math.Round(longitude * 100)),
		date: date.Format(time.DateOnly),
	}
}

// SunEventTimes returns the sun events at the given coordinates for the
// calendar day of date in its own location, using the cache when possible.
func (c *Calculator) SunEventTimes(latitude, longitude float64, date time.Time) (SunEventTimes, error) {
	key := keyFor(latitude, longitude, date)

	c.lock.RLock()
	times, ok := c.cache[key]
	c.lock.RUnlock()
	if ok {
		return times, nil
	}

	times, err := Calculate(latitude, longitude, date)
	if err != nil {
		return SunEventTimes{}, err
	}

	c.lock.Lock()
	if len(c.cache) >= maxCacheEntries {
		clear(c.cache)
	}
	c.cache[key] = times
	c.lock.Unlock()

	return times, nil
}

// SunriseSunset is a convenience wrapper returning only sunrise and sunset.
func (c *Calculator) SunriseSunset(latitude, longitude float64, date time.Time) (sunrise, sunset time.Time, err error) {
	times, err := c.SunEventTimes(latitude, longitude, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return times.Sunrise, times.Sunset, nil
}

// Calculate computes sun event times without caching. Polar day and polar
// night have no sunrise or sunset and return an error.
func Calculate(latitude, longitude float64, date time.Time) (SunEventTimes, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return SunEventTimes{}, fmt.Errorf("coordinates out of range: %.4f, %.4f", latitude, longitude)
	}

	observer := astral.Observer{Latitude: latitude, Longitude: longitude}
	// astral works from the calendar fields of the date it is given
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	sunrise, err := astral.Sunrise(observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	return SunEventTimes{
		Sunrise: sunrise.UTC(),
		Sunset:  sunset.UTC(),
	}, nil
}
