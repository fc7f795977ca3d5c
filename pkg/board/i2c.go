package board

import (
	"fmt"
	"time"

	"golang.org/x/exp/io/i2c"

	"github.com/ninjabotics/ninja/internal/log"
)

// Register map of the expansion hat.
const (
	regPID        = 0x01
	regVID        = 0x02
	regPWMControl = 0x03
	regPWMFreq    = 0x04
	regPWMDuty1   = 0x06 // two bytes per channel: integer percent, tenths
	regADCControl = 0x0e
	regADCValue1  = 0x0f // two bytes per channel, big endian

	expectedPID = 0xdf
	expectedVID = 0x10
)

// DefaultAddr is the hat's factory I2C address.
const DefaultAddr = 0x10

// device is the subset of *i2c.Device we use, extracted so tests can
// substitute a fake bus.
type device interface {
	ReadReg(reg byte, buf []byte) error
	WriteReg(reg byte, buf []byte) error
	Close() error
}

// I2CBoard talks to the expansion hat through the Linux I2C devfs.
type I2CBoard struct {
	dev        device
	pwmEnabled bool
	adcEnabled bool
}

var _ Board = (*I2CBoard)(nil)

// Open connects to the hat and verifies its identity. A hat that does not
// report the expected PID/VID is treated as absent and the returned error
// makes the whole controller unusable, per the construction-time failure
// policy.
func Open(deviceFile string, addr int) (*I2CBoard, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, fmt.Errorf("board: open %s: %w", deviceFile, err)
	}

	b := &I2CBoard{dev: dev}
	if err := b.begin(); err != nil {
		dev.Close()
		return nil, err
	}
	return b, nil
}

// begin verifies the product/vendor registers and puts the hat into a
// known quiet state: PWM off, all duties zero, ADC off.
func (b *I2CBoard) begin() error {
	var pid, vid [1]byte
	if err := b.dev.ReadReg(regPID, pid[:]); err != nil {
		return fmt.Errorf("board: read PID: %w", err)
	}
	if err := b.dev.ReadReg(regVID, vid[:]); err != nil {
		return fmt.Errorf("board: read VID: %w", err)
	}
	if pid[0] != expectedPID || vid[0] != expectedVID {
		return fmt.Errorf("%w: pid=%#x vid=%#x", ErrNotDetected, pid[0], vid[0])
	}

	if err := b.DisablePWM(); err != nil {
		return err
	}
	for ch := 0; ch < NumChannels; ch++ {
		if err := b.SetPWMDuty(ch, 0); err != nil {
			return err
		}
	}
	if err := b.dev.WriteReg(regADCControl, []byte{0x00}); err != nil {
		return fmt.Errorf("board: disable ADC: %w", err)
	}
	return nil
}

// EnablePWM turns the PWM generator on.
func (b *I2CBoard) EnablePWM() error {
	if err := b.dev.WriteReg(regPWMControl, []byte{0x01}); err != nil {
		return fmt.Errorf("board: enable PWM: %w", err)
	}
	b.pwmEnabled = true
	time.Sleep(10 * time.Millisecond)
	return nil
}

// DisablePWM turns the PWM generator off.
func (b *I2CBoard) DisablePWM() error {
	if err := b.dev.WriteReg(regPWMControl, []byte{0x00}); err != nil {
		return fmt.Errorf("board: disable PWM: %w", err)
	}
	b.pwmEnabled = false
	time.Sleep(10 * time.Millisecond)
	return nil
}

// SetPWMFrequency updates the PWM prescaler. The hat only accepts the
// change while PWM is disabled.
func (b *I2CBoard) SetPWMFrequency(hz int) error {
	if hz < 1 || hz > 1000 {
		return fmt.Errorf("%w: frequency %d Hz", ErrBadValue, hz)
	}

	wasEnabled := b.pwmEnabled
	if err := b.DisablePWM(); err != nil {
		return err
	}
	if err := b.dev.WriteReg(regPWMFreq, []byte{byte(hz >> 8), byte(hz & 0xff)}); err != nil {
		return fmt.Errorf("board: set frequency: %w", err)
	}
	time.Sleep(10 * time.Millisecond)

	if wasEnabled {
		return b.EnablePWM()
	}
	return nil
}

// SetPWMDuty writes the duty cycle for one channel as an integer percent
// plus a tenths byte.
func (b *I2CBoard) SetPWMDuty(channel int, duty float64) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("%w: pwm channel %d", ErrBadChannel, channel)
	}
	if duty < 0 || duty > 100 {
		return fmt.Errorf("%w: duty %.1f%%", ErrBadValue, duty)
	}

	reg := byte(regPWMDuty1 + channel*2)
	whole := byte(int(duty))
	tenths := byte(int(duty*10) % 10)
	if err := b.dev.WriteReg(reg, []byte{whole, tenths}); err != nil {
		return fmt.Errorf("board: set duty ch%d: %w", channel, err)
	}
	return nil
}

// ReadADC enables the ADC lazily on first use and reads one channel.
func (b *I2CBoard) ReadADC(channel int) (int, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, fmt.Errorf("%w: adc channel %d", ErrBadChannel, channel)
	}

	if !b.adcEnabled {
		if err := b.dev.WriteReg(regADCControl, []byte{0x01}); err != nil {
			return 0, fmt.Errorf("board: enable ADC: %w", err)
		}
		b.adcEnabled = true
		time.Sleep(10 * time.Millisecond)
	}

	reg := byte(regADCValue1 + channel*2)
	var buf [2]byte
	if err := b.dev.ReadReg(reg, buf[:]); err != nil {
		return 0, fmt.Errorf("board: read ADC ch%d: %w", channel, err)
	}
	return int(buf[0])<<8 | int(buf[1]), nil
}

// Close quiets the servos and releases the bus.
func (b *I2CBoard) Close() error {
	if err := b.DisablePWM(); err != nil {
		log.Warn("board: disable PWM on close", "err", err)
	}
	return b.dev.Close()
}
