package board

import "sync"

// DutyWrite records one SetPWMDuty call in order of arrival.
type DutyWrite struct {
	Channel int
	Duty    float64
}

// Mock is an in-memory Board that records every command. It is used by
// the movement tests and by anyone running the stack off-robot.
type Mock struct {
	mu      sync.Mutex
	enabled bool
	freq    int
	writes  []DutyWrite
	duties  [NumChannels]float64
	adc     [NumChannels]int

	// FailWrites makes every duty write return this error, to exercise
	// the absorb-at-controller-boundary policy.
	FailWrites error
}

var _ Board = (*Mock)(nil)

// NewMock returns an empty mock board.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) EnablePWM() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
	return nil
}

func (m *Mock) DisablePWM() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
	return nil
}

func (m *Mock) SetPWMFrequency(hz int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.freq = hz
	return nil
}

func (m *Mock) SetPWMDuty(channel int, duty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	if channel < 0 || channel >= NumChannels {
		return ErrBadChannel
	}
	m.writes = append(m.writes, DutyWrite{Channel: channel, Duty: duty})
	m.duties[channel] = duty
	return nil
}

func (m *Mock) ReadADC(channel int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if channel < 0 || channel >= NumChannels {
		return 0, ErrBadChannel
	}
	return m.adc[channel], nil
}

func (m *Mock) Close() error { return nil }

// SetADC primes the reading returned for a channel.
func (m *Mock) SetADC(channel, value int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adc[channel] = value
}

// Enabled reports whether PWM is currently on.
func (m *Mock) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Frequency returns the last configured PWM frequency.
func (m *Mock) Frequency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freq
}

// Duty returns the last duty written to a channel.
func (m *Mock) Duty(channel int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duties[channel]
}

// Writes returns a copy of every duty write so far, in order.
func (m *Mock) Writes() []DutyWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DutyWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns the number of duty writes so far.
func (m *Mock) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// ResetWrites clears the recorded writes (current duties are kept).
func (m *Mock) ResetWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
}
