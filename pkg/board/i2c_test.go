package board

import (
	"errors"
	"testing"
)

// fakeDevice emulates the hat's register file.
type fakeDevice struct {
	regs   map[byte][]byte
	writes []struct {
		reg byte
		buf []byte
	}
	failRead bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		regs: map[byte][]byte{
			regPID: {expectedPID},
			regVID: {expectedVID},
		},
	}
}

func (f *fakeDevice) ReadReg(reg byte, buf []byte) error {
	if f.failRead {
		return errors.New("i2c read error")
	}
	if data, ok := f.regs[reg]; ok {
		copy(buf, data)
	}
	return nil
}

func (f *fakeDevice) WriteReg(reg byte, buf []byte) error {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.writes = append(f.writes, struct {
		reg byte
		buf []byte
	}{reg, cp})
	f.regs[reg] = cp
	return nil
}

func (f *fakeDevice) Close() error { return nil }

func (f *fakeDevice) lastWrite(reg byte) []byte {
	for i := len(f.writes) - 1; i >= 0; i-- {
		if f.writes[i].reg == reg {
			return f.writes[i].buf
		}
	}
	return nil
}

func TestBegin_VerifiesIdentity(t *testing.T) {
	dev := newFakeDevice()
	b := &I2CBoard{dev: dev}
	if err := b.begin(); err != nil {
		t.Fatalf("begin with correct identity: %v", err)
	}

	dev.regs[regPID] = []byte{0x00}
	b2 := &I2CBoard{dev: dev}
	err := b2.begin()
	if !errors.Is(err, ErrNotDetected) {
		t.Errorf("begin with wrong PID: err = %v, want ErrNotDetected", err)
	}
}

func TestBegin_ReadFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failRead = true
	b := &I2CBoard{dev: dev}
	if err := b.begin(); err == nil {
		t.Error("expected error when identity read fails")
	}
}

func TestSetPWMDuty_Encoding(t *testing.T) {
	tests := []struct {
		channel int
		duty    float64
		reg     byte
		whole   byte
		tenths  byte
	}{
		{0, 7.5, regPWMDuty1, 7, 5},
		{1, 2.5, regPWMDuty1 + 2, 2, 5},
		{2, 100, regPWMDuty1 + 4, 100, 0},
		{3, 0, regPWMDuty1 + 6, 0, 0},
		{0, 12.3, regPWMDuty1, 12, 3},
	}

	for _, tt := range tests {
		dev := newFakeDevice()
		b := &I2CBoard{dev: dev}
		if err := b.SetPWMDuty(tt.channel, tt.duty); err != nil {
			t.Fatalf("SetPWMDuty(%d, %v): %v", tt.channel, tt.duty, err)
		}
		got := dev.lastWrite(tt.reg)
		if got == nil || got[0] != tt.whole || got[1] != tt.tenths {
			t.Errorf("SetPWMDuty(%d, %v) wrote %v to reg %#x, want [%d %d]",
				tt.channel, tt.duty, got, tt.reg, tt.whole, tt.tenths)
		}
	}
}

func TestSetPWMDuty_Validation(t *testing.T) {
	b := &I2CBoard{dev: newFakeDevice()}

	if err := b.SetPWMDuty(4, 50); !errors.Is(err, ErrBadChannel) {
		t.Errorf("channel 4: err = %v, want ErrBadChannel", err)
	}
	if err := b.SetPWMDuty(-1, 50); !errors.Is(err, ErrBadChannel) {
		t.Errorf("channel -1: err = %v, want ErrBadChannel", err)
	}
	if err := b.SetPWMDuty(0, 101); !errors.Is(err, ErrBadValue) {
		t.Errorf("duty 101: err = %v, want ErrBadValue", err)
	}
}

func TestSetPWMFrequency_DisablesPWMDuringChange(t *testing.T) {
	dev := newFakeDevice()
	b := &I2CBoard{dev: dev}
	if err := b.EnablePWM(); err != nil {
		t.Fatal(err)
	}
	dev.writes = nil

	if err := b.SetPWMFrequency(50); err != nil {
		t.Fatal(err)
	}

	// Expect: disable, frequency bytes, re-enable.
	if len(dev.writes) != 3 {
		t.Fatalf("got %d writes, want 3: %v", len(dev.writes), dev.writes)
	}
	if dev.writes[0].reg != regPWMControl || dev.writes[0].buf[0] != 0x00 {
		t.Errorf("first write should disable PWM, got %v", dev.writes[0])
	}
	if dev.writes[1].reg != regPWMFreq || dev.writes[1].buf[0] != 0 || dev.writes[1].buf[1] != 50 {
		t.Errorf("frequency write = %v, want [0 50]", dev.writes[1])
	}
	if dev.writes[2].reg != regPWMControl || dev.writes[2].buf[0] != 0x01 {
		t.Errorf("last write should re-enable PWM, got %v", dev.writes[2])
	}
	if !b.pwmEnabled {
		t.Error("pwmEnabled should be restored after frequency change")
	}
}

func TestSetPWMFrequency_Validation(t *testing.T) {
	b := &I2CBoard{dev: newFakeDevice()}
	for _, hz := range []int{0, -1, 1001} {
		if err := b.SetPWMFrequency(hz); !errors.Is(err, ErrBadValue) {
			t.Errorf("SetPWMFrequency(%d): err = %v, want ErrBadValue", hz, err)
		}
	}
}

func TestReadADC_BigEndian(t *testing.T) {
	dev := newFakeDevice()
	dev.regs[regADCValue1+2] = []byte{0x01, 0xff}
	b := &I2CBoard{dev: dev}

	v, err := b.ReadADC(1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x01ff {
		t.Errorf("ReadADC(1) = %#x, want 0x01ff", v)
	}
	if got := dev.lastWrite(regADCControl); got == nil || got[0] != 0x01 {
		t.Errorf("first read should enable the ADC, control write = %v", got)
	}

	dev.writes = nil
	if _, err := b.ReadADC(1); err != nil {
		t.Fatal(err)
	}
	if dev.lastWrite(regADCControl) != nil {
		t.Error("ADC should only be enabled once")
	}

	if _, err := b.ReadADC(7); !errors.Is(err, ErrBadChannel) {
		t.Errorf("ReadADC(7): err = %v, want ErrBadChannel", err)
	}
}
