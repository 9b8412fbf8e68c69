package logic

import (
	"errors"
	"testing"
)

type scriptedKeys struct {
	keys []byte
	i    int
}

func (s *scriptedKeys) Read() byte {
	if s.i >= len(s.keys) {
		return '?'
	}
	k := s.keys[s.i]
	s.i++
	return k
}

func TestInputCaptureNormalizesIdle(t *testing.T) {
	tests := []struct {
		in   byte
		want Key
	}{
		{'0', '0'},
		{'9', '9'},
		{'A', KeyWeight},
		{'B', KeyDoor},
		{'C', KeyCancel},
		{'D', KeyStart},
		{'?', KeyNone},
		{'E', KeyNone},
		{'*', KeyNone},
		{0, KeyNone},
	}

	for _, tt := range tests {
		shared := NewShared()
		in := NewInputCapture(&scriptedKeys{keys: []byte{tt.in}}, shared)
		if err := in.Run(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := shared.PressedKey(); got != tt.want {
			t.Errorf("key %q: got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestInputCaptureOverwritesEachCycle(t *testing.T) {
	shared := NewShared()
	in := NewInputCapture(&scriptedKeys{keys: []byte{'5'}}, shared)

	in.Run()
	if shared.PressedKey() != '5' {
		t.Fatalf("first cycle: got %s, want 5", shared.PressedKey())
	}
	in.Run()
	if shared.PressedKey() != KeyNone {
		t.Errorf("second cycle: got %s, want NONE", shared.PressedKey())
	}
}

func TestKeyClassification(t *testing.T) {
	if KeyNone.IsDigit() || KeyNone.IsControl() {
		t.Error("KeyNone must be neither digit nor control")
	}
	for k := Key('0'); k <= '9'; k++ {
		if !k.IsDigit() || k.IsControl() {
			t.Errorf("%s should be a digit only", k)
		}
		if k.Digit() != uint32(k-'0') {
			t.Errorf("%s: Digit() = %d", k, k.Digit())
		}
	}
	for _, k := range []Key{KeyWeight, KeyDoor, KeyCancel, KeyStart} {
		if !k.IsControl() || k.IsDigit() {
			t.Errorf("%s should be a control key only", k)
		}
	}
}

func TestSimulatedSensorsToggle(t *testing.T) {
	s := NewSimulatedSensors()

	door, weight, _ := s.Sense(KeyWeight)
	if door || !weight {
		t.Errorf("after A: got door=%v weight=%v, want false/true", door, weight)
	}
	door, weight, _ = s.Sense(KeyDoor)
	if !door || !weight {
		t.Errorf("after B: got door=%v weight=%v, want true/true", door, weight)
	}
	door, weight, _ = s.Sense('5')
	if !door || !weight {
		t.Errorf("digit changed sensors: door=%v weight=%v", door, weight)
	}
	door, weight, _ = s.Sense(KeyWeight)
	if !door || weight {
		t.Errorf("after second A: got door=%v weight=%v, want true/false", door, weight)
	}
}

type fakePins struct {
	door, weight bool
	err          error
}

func (f *fakePins) Read() (bool, bool, error) {
	return f.door, f.weight, f.err
}

func TestSensorCaptureFromPins(t *testing.T) {
	shared := NewShared()
	pins := &fakePins{door: true}
	sc := NewSensorCapture(NewPinSensors(pins), shared, shared)

	// Keys have no effect on physical sensors.
	shared.SetPressedKey(KeyWeight)
	if err := sc.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shared.Door() || shared.Weight() {
		t.Errorf("got door=%v weight=%v, want true/false", shared.Door(), shared.Weight())
	}

	pins.err = errors.New("gpio fault")
	pins.door = false
	if err := sc.Run(); err == nil {
		t.Error("expected error from pin read")
	}
	if !shared.Door() {
		t.Error("failed read should keep the previous door reading")
	}
}
