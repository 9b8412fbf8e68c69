package logic

// Snapshot is a point-in-time copy of the shared oven state.
type Snapshot struct {
	Key       Key
	Door      bool // true = ON
	Weight    bool // true = ON
	Mode      Mode
	SetTime   uint32
	Remaining uint32
	Output    Output
}

// KeyView reads the most recently captured key.
type KeyView interface {
	PressedKey() Key
}

// KeyWriter publishes the captured key. Only InputCapture holds one.
type KeyWriter interface {
	SetPressedKey(k Key)
}

// SensorWriter publishes sensor readings. Only SensorCapture holds one.
type SensorWriter interface {
	SetSensors(door, weight bool)
}

// View is the read-only view used by the display and output tasks.
type View interface {
	KeyView
	Door() bool
	Weight() bool
	Mode() Mode
	SetTime() uint32
	RemainingTime() uint32
	Output() Output
}

// ControlState is the view the mode controller reads and writes.
type ControlState interface {
	View
	SetMode(m Mode)
	SetSetTime(v uint32)
	SetRemainingTime(v uint32)
	SetOutput(o Output)
}

// Shared holds the state exchanged between the periodic tasks.
// It has no locking: every task runs on the scheduler's goroutine, one at a
// time, so each field has exactly one writer and no concurrent reader.
// Other goroutines must work from a Snapshot.
type Shared struct {
	s Snapshot
}

// NewShared returns the startup state: no key, sensors OFF, SET_TIME, heating stopped.
func NewShared() *Shared {
	return &Shared{s: Snapshot{
		Key:    KeyNone,
		Mode:   ModeSetTime,
		Output: StopHeating,
	}}
}

func (s *Shared) PressedKey() Key { return s.s.Key }
func (s *Shared) SetPressedKey(k Key) { s.s.Key = k }
func (s *Shared) Door() bool { return s.s.Door }
func (s *Shared) Weight() bool { return s.s.Weight }
func (s *Shared) Mode() Mode { return s.s.Mode }
func (s *Shared) SetMode(m Mode) { s.s.Mode = m }
func (s *Shared) SetTime() uint32 { return s.s.SetTime }
func (s *Shared) SetSetTime(v uint32) { s.s.SetTime = v }
func (s *Shared) RemainingTime() uint32 { return s.s.Remaining }
func (s *Shared) SetRemainingTime(v uint32) { s.s.Remaining = v }
func (s *Shared) Output() Output { return s.s.Output }
func (s *Shared) SetOutput(o Output) { s.s.Output = o }

// SetSensors stores both sensor flags.
func (s *Shared) SetSensors(door, weight bool) {
	s.s.Door = door
	s.s.Weight = weight
}

// Snapshot returns a copy of the current state.
func (s *Shared) Snapshot() Snapshot {
	return s.s
}
