package logic

// Controller timing, in controller invocations. The controller is scheduled
// every 200ms, so TicksPerSecond invocations make one second of cook time.
const (
	TicksPerSecond = 5
	IdleTicks      = 50
	MaxDigits      = 4
)

// Controller is the oven's mode state machine.
// It owns the mode, set time, remaining time and output state; the tick
// counter and the digit buffer survive across invocations.
type Controller struct {
	state  ControlState
	ticks  int
	digits int
	buf    [MaxDigits]uint32
}

// NewController creates a controller in its startup state.
func NewController(state ControlState) *Controller {
	return &Controller{state: state}
}

// Run advances the state machine by one invocation.
// Unrecognised keys fall through every branch and change nothing.
func (c *Controller) Run() error {
	c.ticks++

	if c.state.Mode() == ModeRemaining {
		c.runCooking()
	} else {
		c.runEntry()
	}
	return nil
}

// Ticks returns the invocations counted since the last mode-relevant event.
func (c *Controller) Ticks() int {
	return c.ticks
}

// Digits returns how many digit keys were pressed in the current entry session.
// It keeps counting past MaxDigits.
func (c *Controller) Digits() int {
	return c.digits
}

func (c *Controller) runCooking() {
	st := c.state
	key := st.PressedKey()

	switch {
	case key == KeyDoor:
		// Pause: keep what is left as the new set time so START resumes it.
		// Sensor readings alone never leave REMAINING_DISPLAY.
		st.SetOutput(StopHeating)
		st.SetMode(ModeCloseDoor)
		st.SetSetTime(st.RemainingTime())
	case key == KeyCancel || st.RemainingTime() == 0:
		c.reset()
		st.SetOutput(StopHeating)
		st.SetMode(ModeSetTime)
	}

	if c.ticks >= TicksPerSecond {
		c.ticks = 0
		if r := st.RemainingTime(); r > 0 {
			st.SetRemainingTime(r - 1)
		}
	}
}

func (c *Controller) runEntry() {
	st := c.state
	key := st.PressedKey()

	switch {
	case key.IsDigit():
		c.ticks = 0
		st.SetMode(ModeSetTime)
		if c.digits < MaxDigits {
			c.buf[c.digits] = key.Digit()
			st.SetSetTime(decimal(c.buf[:c.digits+1]))
		}
		c.digits++
	case key == KeyCancel:
		c.reset()
		st.SetMode(ModeSetTime)
	case key == KeyStart:
		c.ticks = 0
		c.start()
	}

	if c.ticks >= IdleTicks {
		c.reset()
		st.SetMode(ModeSetTime)
	}
}

// start evaluates the sensors and either begins cooking or shows why it can't.
func (c *Controller) start() {
	st := c.state
	if st.SetTime() == 0 {
		return
	}
	// A nonzero start ends the entry session, so the next digit starts a new time.
	c.digits = 0

	mode := blockedMode(st.Door(), st.Weight())
	if mode == ModeRemaining {
		st.SetRemainingTime(st.SetTime())
		st.SetOutput(StartHeating)
	} else {
		st.SetOutput(StopHeating)
	}
	st.SetMode(mode)
}

// reset abandons the entry session.
func (c *Controller) reset() {
	c.ticks = 0
	c.digits = 0
	c.state.SetSetTime(0)
}

// blockedMode maps the sensor readings to the mode START leads to.
// Weight ON means no food has been detected.
func blockedMode(door, weight bool) Mode {
	switch {
	case !weight && !door:
		return ModeRemaining
	case !weight && door:
		return ModeCloseDoor
	case weight && !door:
		return ModePutFood
	default:
		return ModeCloseDoorPutFood
	}
}

// decimal folds digits, most significant first, into their value.
func decimal(digits []uint32) uint32 {
	var v uint32
	n := len(digits)
	for i, d := range digits {
		v += d * Pow10(uint(n-1-i))
	}
	return v
}

// Pow10 returns 10^exp.
func Pow10(exp uint) uint32 {
	v := uint32(1)
	for ; exp > 0; exp-- {
		v *= 10
	}
	return v
}
