package sensor

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
)

const (
	// speedOfSound is in cm/s at room temperature. The echo travels out
	// and back, so the one-way distance halves the round trip.
	speedOfSound = 34300.0

	triggerPulse = 10 * time.Microsecond
	echoWindow   = 100 * time.Millisecond
)

// Ultrasonic is an HC-SR04 ranger: a 10µs pulse on the trigger pin, then
// the echo pin goes high for the round-trip time of the sound burst.
type Ultrasonic struct {
	mu   sync.Mutex // one measurement at a time
	trig gpio.PinIO
	echo gpio.PinIO
}

var _ Ranger = (*Ultrasonic)(nil)

// NewUltrasonic opens the trigger and echo pins by periph name
// ("GPIO21", "GPIO22").
func NewUltrasonic(trigName, echoName string) (*Ultrasonic, error) {
	trig, err := openPin(trigName)
	if err != nil {
		return nil, err
	}
	echo, err := openPin(echoName)
	if err != nil {
		return nil, err
	}

	if err := trig.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("sensor: configure trigger %s: %w", trigName, err)
	}
	if err := echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("sensor: configure echo %s: %w", echoName, err)
	}
	return &Ultrasonic{trig: trig, echo: echo}, nil
}

// Distance fires one measurement and returns centimeters. A pulse that
// never starts or never ends within the window is ErrTimeout.
func (u *Ultrasonic) Distance() (float64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.trig.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("sensor: raise trigger: %w", err)
	}
	time.Sleep(triggerPulse)
	if err := u.trig.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("sensor: drop trigger: %w", err)
	}

	deadline := time.Now().Add(echoWindow)

	// Wait for the echo to go high.
	for u.echo.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return 0, ErrTimeout
		}
	}
	start := time.Now()

	// Wait for it to drop again.
	for u.echo.Read() == gpio.High {
		if time.Now().After(deadline) {
			return 0, ErrTimeout
		}
	}
	roundTrip := time.Since(start)

	return roundTrip.Seconds() * speedOfSound / 2, nil
}
