// Package board drives the DFRobot IO expansion hat over I2C.
//
// The hat exposes four PWM outputs (the leg and foot servos) and four ADC
// inputs behind a small register protocol. Everything above this package
// talks angles and duty cycles; everything below is register writes.
package board

import "errors"

// Sentinel errors for construction-time failures. Runtime write errors
// are returned raw from the I2C layer and absorbed by the caller.
var (
	// ErrNotDetected is returned when the hat does not answer with the
	// expected product/vendor identity during Begin.
	ErrNotDetected = errors.New("board: device not detected")

	// ErrBadChannel is returned for a PWM or ADC channel outside 0..3.
	ErrBadChannel = errors.New("board: channel out of range")

	// ErrBadValue is returned for an out-of-range frequency or duty cycle.
	ErrBadValue = errors.New("board: value out of range")
)

// NumChannels is the number of PWM/ADC channels on the hat.
const NumChannels = 4

// Board is the capability the movement controller holds. Channels are
// 0-indexed; the wire protocol's 1-indexed registers stay private.
type Board interface {
	// EnablePWM turns the PWM generator on.
	EnablePWM() error

	// DisablePWM turns the PWM generator off.
	DisablePWM() error

	// SetPWMFrequency sets the PWM frequency in Hz (1..1000). The hat
	// requires PWM to be disabled while the prescaler changes; the
	// previous enable state is restored afterwards.
	SetPWMFrequency(hz int) error

	// SetPWMDuty sets the duty cycle for one channel, in percent
	// (0.0..100.0) with 0.1% resolution.
	SetPWMDuty(channel int, duty float64) error

	// ReadADC returns the raw ADC reading for one channel.
	ReadADC(channel int) (int, error)

	// Close releases the underlying bus.
	Close() error
}
