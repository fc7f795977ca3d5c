// Package calibration maps logical servo angles to calibrated physical
// angles and PWM duty cycles.
//
// Each channel has a {min, center, max} triple measured with the
// calibrate tool. Logical angles are what gaits speak (0..180, 90 =
// neutral); physical angles are what the servo horn actually needs on a
// given build. Channels without an entry pass through unchanged.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Entry holds the calibrated positions for one channel.
//
// min <= center <= max is deliberately not enforced: an inverted triple
// reverses the servo's direction, and some builds rely on that.
type Entry struct {
	Min    int `json:"min"`
	Center int `json:"center"`
	Max    int `json:"max"`
}

// DefaultEntry is the identity calibration.
var DefaultEntry = Entry{Min: 0, Center: 90, Max: 180}

// Table maps channel numbers to calibration entries.
type Table map[int]Entry

// Load reads a calibration table from a JSON file keyed by channel
// number as a string. A missing file yields an empty table and no error;
// a malformed one is an error.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("calibration: read %s: %w", path, err)
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("calibration: parse %s: %w", path, err)
	}

	table := make(Table, len(raw))
	for key, entry := range raw {
		ch, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("calibration: bad channel key %q in %s", key, path)
		}
		table[ch] = entry
	}
	return table, nil
}

// Save writes the table to a JSON file in the same string-keyed format.
func (t Table) Save(path string) error {
	raw := make(map[string]Entry, len(t))
	for ch, entry := range t {
		raw[strconv.Itoa(ch)] = entry
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("calibration: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("calibration: write %s: %w", path, err)
	}
	return nil
}

// Entry returns the calibration for a channel, or the identity entry
// when none is recorded.
func (t Table) Entry(channel int) Entry {
	if e, ok := t[channel]; ok {
		return e
	}
	return DefaultEntry
}

// Map converts a logical angle (0..180) to the calibrated physical angle
// for a channel. The three anchor angles map exactly; everything else is
// linearly interpolated within its half and truncated toward zero.
func (t Table) Map(channel, angle int) int {
	e, ok := t[channel]
	if !ok {
		return angle
	}

	switch angle {
	case 90:
		return e.Center
	case 0:
		return e.Min
	case 180:
		return e.Max
	}

	if angle < 90 {
		return e.Min + int(float64(e.Center-e.Min)*float64(angle)/90.0)
	}
	return e.Center + int(float64(e.Max-e.Center)*float64(angle-90)/90.0)
}

// AngleToDuty converts a physical angle to a PWM duty-cycle percentage
// for a 50 Hz servo signal with a 0.5ms..2.5ms pulse range:
// 0 degrees = 2.5%, 180 degrees = 12.5%.
func AngleToDuty(angle int) float64 {
	return (0.5 + float64(angle)/90.0) / 20.0 * 100.0
}
