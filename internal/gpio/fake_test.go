package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{Door: true, Weight: false},
		{Door: false, Weight: true},
		{Door: true, Weight: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		door, weight, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if door != want.Door || weight != want.Weight {
			t.Errorf("sample %d: expected (%v, %v), got (%v, %v)", i, want.Door, want.Weight, door, weight)
		}
	}

	// Next read should repeat last sample
	door, weight, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if door != true || weight != true {
		t.Errorf("repeat: expected (true, true), got (%v, %v)", door, weight)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Door: true, Weight: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Sample{{Door: true}, {Weight: true}})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	door, weight, _ := f.Read()
	if door != true || weight != false {
		t.Errorf("after reset: expected (true, false), got (%v, %v)", door, weight)
	}
}

func TestFakeWriter(t *testing.T) {
	f := NewFakeWriter()

	if err := f.Set(Heater, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Level(Heater) {
		t.Error("heater should be high")
	}
	if f.Level(Lamp) {
		t.Error("lamp should still be low")
	}
	if err := f.Set(Line(42), true); err == nil {
		t.Error("expected error for unknown line")
	}

	f.Close()
	if f.Level(Heater) {
		t.Error("Close should drive outputs low")
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if !f.Raised[Heater] || f.Raised[Lamp] {
		t.Errorf("Raised should remember the heater only: %v", f.Raised)
	}
}

func TestLogWriterTracksLevels(t *testing.T) {
	w := NewLogWriter()
	if err := w.Set(Motor, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.levels[Motor] {
		t.Error("motor should be high")
	}
	w.Close()
	for _, l := range Lines() {
		if w.levels[l] {
			t.Errorf("%s should be low after Close", l)
		}
	}
}

func TestDefaultOutputPins(t *testing.T) {
	pins := DefaultOutputPins()
	seen := map[int]Line{}
	for _, l := range Lines() {
		if other, ok := seen[pins[l]]; ok {
			t.Errorf("%s and %s share pin %d", l, other, pins[l])
		}
		seen[pins[l]] = l
	}
	if pins[Heater] != DefaultPinHeater {
		t.Errorf("heater pin: got %d, want %d", pins[Heater], DefaultPinHeater)
	}
}
