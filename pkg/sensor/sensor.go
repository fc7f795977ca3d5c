// Package sensor reads the robot's environment: an HC-SR04 ultrasonic
// ranger on two GPIO pins and an active buzzer on a third.
//
// The obstacle monitor wraps a ranger into the yes/no predicate the
// movement controller polls between gait iterations.
package sensor

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// ErrTimeout means the echo pulse never arrived or never ended within
// the measurement window. Callers treat it as "no reading", not as a
// detected obstacle.
var ErrTimeout = errors.New("sensor: echo timeout")

// Ranger reports the distance to the nearest object in centimeters.
type Ranger interface {
	Distance() (float64, error)
}

var hostInit sync.Once

func initHost() error {
	var err error
	hostInit.Do(func() {
		_, err = host.Init()
	})
	return err
}

// openPin resolves a GPIO pin by its periph name, e.g. "GPIO21".
func openPin(name string) (gpio.PinIO, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("sensor: init gpio host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("sensor: no such pin %q", name)
	}
	return pin, nil
}
