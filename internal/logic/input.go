package logic

// KeySource is the keypad driver contract: one debounced key per call,
// or a driver-specific idle byte when nothing is pressed.
type KeySource interface {
	Read() byte
}

// InputCapture polls the keypad once per invocation.
type InputCapture struct {
	src KeySource
	out KeyWriter
}

// NewInputCapture creates the keypad polling task.
func NewInputCapture(src KeySource, out KeyWriter) *InputCapture {
	return &InputCapture{src: src, out: out}
}

// Run overwrites the shared key with the current keypad value.
// Anything that is neither a digit nor a control letter becomes KeyNone.
func (in *InputCapture) Run() error {
	k := Key(in.src.Read())
	if !k.IsDigit() && !k.IsControl() {
		k = KeyNone
	}
	in.out.SetPressedKey(k)
	return nil
}

// Sensors supplies the door and weight readings.
type Sensors interface {
	// Sense returns the current readings. key is the latest captured key,
	// which simulated sensors use as their input.
	Sense(key Key) (door, weight bool, err error)
}

// SimulatedSensors stands in for the physical detectors: KeyWeight flips
// the weight flag and KeyDoor flips the door flag, in any mode.
type SimulatedSensors struct {
	door   bool
	weight bool
}

// NewSimulatedSensors returns simulated sensors with both flags OFF.
func NewSimulatedSensors() *SimulatedSensors {
	return &SimulatedSensors{}
}

// Sense applies the key and returns the flags.
func (s *SimulatedSensors) Sense(key Key) (bool, bool, error) {
	switch key {
	case KeyWeight:
		s.weight = !s.weight
	case KeyDoor:
		s.door = !s.door
	}
	return s.door, s.weight, nil
}

// PinReader reads the two physical sensor inputs (gpio.Reader satisfies it).
type PinReader interface {
	Read() (door bool, weight bool, err error)
}

// PinSensors reads real detectors and ignores the keypad.
type PinSensors struct {
	r PinReader
}

// NewPinSensors wraps a pin reader.
func NewPinSensors(r PinReader) *PinSensors {
	return &PinSensors{r: r}
}

// Sense returns the physical readings.
func (p *PinSensors) Sense(Key) (bool, bool, error) {
	return p.r.Read()
}

// SensorCapture refreshes the shared sensor flags once per invocation.
type SensorCapture struct {
	sensors Sensors
	keys    KeyView
	out     SensorWriter
}

// NewSensorCapture creates the sensor task.
func NewSensorCapture(sensors Sensors, keys KeyView, out SensorWriter) *SensorCapture {
	return &SensorCapture{sensors: sensors, keys: keys, out: out}
}

// Run reads the sensors. On error the previous flags are kept.
func (sc *SensorCapture) Run() error {
	door, weight, err := sc.sensors.Sense(sc.keys.PressedKey())
	if err != nil {
		return err
	}
	sc.out.SetSensors(door, weight)
	return nil
}
