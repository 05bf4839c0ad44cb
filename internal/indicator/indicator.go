package indicator

import (
	"sync"
	"time"
)

// Color is one RGBW value.
type Color struct {
	R, G, B, W uint8
}

// Steady connectivity colours and activity flashes. Dim values for the
// steady states so the light is readable without being distracting;
// full-brightness flashes so activity registers at a glance.
var (
	colorOff           = Color{}
	colorNoNetwork     = Color{R: 50}
	colorNoBroker      = Color{B: 50}
	colorConnected     = Color{G: 50}
	colorReceiveFlash  = Color{R: 255, G: 255}
	colorTransmitFlash = Color{R: 255, G: 100}
)

// bootSequence is stepped through once at startup as a lamp test.
var bootSequence = []Color{
	{R: 255},
	{G: 255},
	{B: 255},
	{W: 255},
	{},
}

// bootStepInterval is how long each boot sequence colour is held.
const bootStepInterval = 250 * time.Millisecond

// Status is the node's connectivity level.
type Status int

const (
	// StatusNoNetwork: the network link is down.
	StatusNoNetwork Status = iota

	// StatusNoBroker: link is up but the broker connection is not.
	StatusNoBroker

	// StatusConnected: link up and broker connected.
	StatusConnected
)

// String returns a log-friendly status name.
func (s Status) String() string {
	switch s {
	case StatusNoNetwork:
		return "no-network"
	case StatusNoBroker:
		return "no-broker"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Driver sets the physical light colour.
//
// Implementations must tolerate being called every tick with the same
// colour; the indicator suppresses redundant writes but drivers should
// not depend on that.
type Driver interface {
	SetRGBW(c Color)
}

// Nop is a driver that does nothing, used when the indicator is
// disabled in configuration.
type Nop struct{}

// SetRGBW implements Driver.
func (Nop) SetRGBW(Color) {}

// Indicator owns the light and arbitrates between the steady
// connectivity colour and the transient activity flash.
//
// Thread Safety:
//   - All methods are safe for concurrent use; flashes arrive from MQTT
//     callback goroutines while Update runs on the orchestrator tick.
type Indicator struct {
	driver        Driver
	flashDuration time.Duration

	mu         sync.Mutex
	flashUntil time.Time
	current    Color
	lit        bool

	// now is the clock, swapped out in tests.
	now func() time.Time

	// sleep paces the boot sequence, swapped out in tests.
	sleep func(time.Duration)
}

// New creates an indicator over the given driver.
//
// Parameters:
//   - driver: Physical light driver (use Nop when disabled)
//   - flashDuration: How long an activity flash overrides the steady colour
func New(driver Driver, flashDuration time.Duration) *Indicator {
	return &Indicator{
		driver:        driver,
		flashDuration: flashDuration,
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// Boot steps through the lamp-test sequence: red, green, blue, white,
// off. Blocks for the duration of the sequence.
func (i *Indicator) Boot() {
	for _, c := range bootSequence {
		i.set(c)
		i.sleep(bootStepInterval)
	}
}

// FlashReceive shows the receive flash until it expires.
func (i *Indicator) FlashReceive() {
	i.flash(colorReceiveFlash)
}

// FlashTransmit shows the transmit flash until it expires.
func (i *Indicator) FlashTransmit() {
	i.flash(colorTransmitFlash)
}

func (i *Indicator) flash(c Color) {
	i.mu.Lock()
	i.flashUntil = i.now().Add(i.flashDuration)
	i.mu.Unlock()
	i.set(c)
}

// Update applies the steady colour for the given status, unless an
// activity flash is still running. Called every orchestrator tick.
func (i *Indicator) Update(status Status) {
	i.mu.Lock()
	flashing := i.now().Before(i.flashUntil)
	i.mu.Unlock()
	if flashing {
		return
	}

	switch status {
	case StatusNoNetwork:
		i.set(colorNoNetwork)
	case StatusNoBroker:
		i.set(colorNoBroker)
	case StatusConnected:
		i.set(colorConnected)
	}
}

// Off turns the light off, used at shutdown.
func (i *Indicator) Off() {
	i.mu.Lock()
	i.flashUntil = time.Time{}
	i.mu.Unlock()
	i.set(colorOff)
}

// set writes the colour to the driver, suppressing redundant writes.
func (i *Indicator) set(c Color) {
	i.mu.Lock()
	if i.lit && c == i.current {
		i.mu.Unlock()
		return
	}
	i.current = c
	i.lit = true
	i.mu.Unlock()

	i.driver.SetRGBW(c)
}
