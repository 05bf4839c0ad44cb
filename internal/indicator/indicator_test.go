package indicator

import (
	"testing"
	"time"
)

// fakeDriver records every colour write.
type fakeDriver struct {
	writes []Color
}

func (f *fakeDriver) SetRGBW(c Color) {
	f.writes = append(f.writes, c)
}

func (f *fakeDriver) last() Color {
	if len(f.writes) == 0 {
		return Color{}
	}
	return f.writes[len(f.writes)-1]
}

// testIndicator returns an indicator with a manual clock and no sleeping.
func testIndicator(driver *fakeDriver, flash time.Duration) (*Indicator, *time.Time) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	i := New(driver, flash)
	i.now = func() time.Time { return clock }
	i.sleep = func(time.Duration) {}
	return i, &clock
}

// =============================================================================
// Steady Colour Tests
// =============================================================================

func TestUpdateSteadyColours(t *testing.T) {
	tests := []struct {
		status Status
		want   Color
	}{
		{StatusNoNetwork, Color{R: 50}},
		{StatusNoBroker, Color{B: 50}},
		{StatusConnected, Color{G: 50}},
	}

	for _, tt := range tests {
		driver := &fakeDriver{}
		i, _ := testIndicator(driver, 200*time.Millisecond)

		i.Update(tt.status)
		if got := driver.last(); got != tt.want {
			t.Errorf("Update(%v) set %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestUpdateSuppressesRedundantWrites(t *testing.T) {
	driver := &fakeDriver{}
	i, _ := testIndicator(driver, 200*time.Millisecond)

	i.Update(StatusConnected)
	i.Update(StatusConnected)
	i.Update(StatusConnected)

	if len(driver.writes) != 1 {
		t.Errorf("driver written %d times for identical status, want 1", len(driver.writes))
	}
}

// =============================================================================
// Activity Flash Tests
// =============================================================================

func TestFlashColours(t *testing.T) {
	driver := &fakeDriver{}
	i, _ := testIndicator(driver, 200*time.Millisecond)

	i.FlashReceive()
	if got := driver.last(); got != (Color{R: 255, G: 255}) {
		t.Errorf("FlashReceive() set %v, want yellow", got)
	}

	i.FlashTransmit()
	if got := driver.last(); got != (Color{R: 255, G: 100}) {
		t.Errorf("FlashTransmit() set %v, want orange", got)
	}
}

func TestFlashOverridesSteadyColour(t *testing.T) {
	driver := &fakeDriver{}
	i, _ := testIndicator(driver, 200*time.Millisecond)

	i.Update(StatusConnected)
	i.FlashReceive()

	// While the flash runs, ticks must not restore the steady colour.
	i.Update(StatusConnected)
	if got := driver.last(); got != (Color{R: 255, G: 255}) {
		t.Errorf("colour during flash = %v, want flash colour", got)
	}
}

func TestFlashExpires(t *testing.T) {
	driver := &fakeDriver{}
	i, clock := testIndicator(driver, 200*time.Millisecond)

	i.FlashReceive()

	// One tick shy of expiry the flash holds.
	*clock = clock.Add(199 * time.Millisecond)
	i.Update(StatusConnected)
	if got := driver.last(); got != (Color{R: 255, G: 255}) {
		t.Errorf("colour before expiry = %v, want flash colour", got)
	}

	// Past expiry the steady colour returns.
	*clock = clock.Add(2 * time.Millisecond)
	i.Update(StatusConnected)
	if got := driver.last(); got != (Color{G: 50}) {
		t.Errorf("colour after expiry = %v, want steady connected", got)
	}
}

func TestFlashRearms(t *testing.T) {
	driver := &fakeDriver{}
	i, clock := testIndicator(driver, 200*time.Millisecond)

	i.FlashReceive()
	*clock = clock.Add(150 * time.Millisecond)

	// A second flash inside the window restarts the timer.
	i.FlashTransmit()
	*clock = clock.Add(150 * time.Millisecond)
	i.Update(StatusConnected)
	if got := driver.last(); got != (Color{R: 255, G: 100}) {
		t.Errorf("colour 150ms after re-arm = %v, want transmit flash", got)
	}
}

// =============================================================================
// Boot and Shutdown Tests
// =============================================================================

func TestBootSequence(t *testing.T) {
	driver := &fakeDriver{}
	i, _ := testIndicator(driver, 200*time.Millisecond)

	i.Boot()

	want := []Color{{R: 255}, {G: 255}, {B: 255}, {W: 255}, {}}
	if len(driver.writes) != len(want) {
		t.Fatalf("boot wrote %d colours, want %d", len(driver.writes), len(want))
	}
	for n, c := range want {
		if driver.writes[n] != c {
			t.Errorf("boot step %d = %v, want %v", n, driver.writes[n], c)
		}
	}
}

func TestOffClearsFlash(t *testing.T) {
	driver := &fakeDriver{}
	i, _ := testIndicator(driver, 200*time.Millisecond)

	i.FlashReceive()
	i.Off()

	if got := driver.last(); got != (Color{}) {
		t.Errorf("colour after Off() = %v, want off", got)
	}

	// Off cancels the pending flash; the next tick applies the steady colour.
	i.Update(StatusNoNetwork)
	if got := driver.last(); got != (Color{R: 50}) {
		t.Errorf("colour after Off()+Update = %v, want steady no-network", got)
	}
}
