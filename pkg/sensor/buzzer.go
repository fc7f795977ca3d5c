package sensor

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
)

// Buzzer drives an active buzzer on one GPIO pin.
type Buzzer struct {
	pin gpio.PinIO
}

// NewBuzzer opens the buzzer pin by periph name and leaves it silent.
func NewBuzzer(pinName string) (*Buzzer, error) {
	pin, err := openPin(pinName)
	if err != nil {
		return nil, err
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("sensor: configure buzzer %s: %w", pinName, err)
	}
	return &Buzzer{pin: pin}, nil
}

// Beep sounds count short beeps of the given duration, with an equal
// silence between them. Runs on the caller's goroutine.
func (b *Buzzer) Beep(count int, d time.Duration) error {
	for i := 0; i < count; i++ {
		if err := b.pin.Out(gpio.High); err != nil {
			return fmt.Errorf("sensor: buzzer on: %w", err)
		}
		time.Sleep(d)
		if err := b.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("sensor: buzzer off: %w", err)
		}
		if i < count-1 {
			time.Sleep(d)
		}
	}
	return nil
}
