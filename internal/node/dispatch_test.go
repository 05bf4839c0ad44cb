package node

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgenode-io/edgenode/internal/indicator"
	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/infrastructure/logging"
	"github.com/edgenode-io/edgenode/internal/infrastructure/mqtt"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/settings"
)

// fakeDriver records indicator writes so tests can observe flashes.
type fakeDriver struct {
	writes []indicator.Color
}

func (f *fakeDriver) SetRGBW(c indicator.Color) {
	f.writes = append(f.writes, c)
}

func testNode(t *testing.T) (*Node, *fakeDriver) {
	t.Helper()
	driver := &fakeDriver{}
	n, err := New(Deps{
		Config:      config.Default(),
		Logger:      logging.Default(),
		Driver:      driver,
		RestartFunc: func() { t.Fatal("unexpected restart") },
	})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return n, driver
}

// =============================================================================
// Config Dispatch Tests
// =============================================================================

func TestHandleConfigEnablesDiscovery(t *testing.T) {
	n, _ := testNode(t)

	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryEnabled":true}`))
	if !n.disco.Enabled() {
		t.Error("discovery not enabled after config")
	}

	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryEnabled":false}`))
	if n.disco.Enabled() {
		t.Error("discovery still enabled after disabling config")
	}
}

func TestHandleConfigSetsTopicPrefix(t *testing.T) {
	n, _ := testNode(t)

	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryTopicPrefix":"custom"}`))
	if got := n.disco.TopicPrefix(); got != "custom" {
		t.Errorf("TopicPrefix() = %q, want %q", got, "custom")
	}
}

func TestHandleConfigRejectsOverlongPrefix(t *testing.T) {
	n, _ := testNode(t)

	long := strings.Repeat("a", 64)
	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryTopicPrefix":"` + long + `"}`))

	// Rejection is log-only; the stored prefix stays at the default.
	if got := n.disco.TopicPrefix(); got != "homeassistant" {
		t.Errorf("TopicPrefix() = %q after rejected prefix, want default", got)
	}
}

func TestHandleConfigForwardsOriginalDocument(t *testing.T) {
	n, _ := testNode(t)

	var received *jsondoc.Doc
	n.OnConfig(func(doc *jsondoc.Doc) { received = doc })

	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryEnabled":true,"pollIntervalMs":5000}`))

	if received == nil {
		t.Fatal("firmware config callback not invoked")
	}
	// The forwarded document keeps every key, built-ins included.
	if !received.Has("hassDiscoveryEnabled") {
		t.Error("forwarded document lost built-in key")
	}
	interval, ok := received.Get("pollIntervalMs")
	if !ok || interval.Float() != 5000 {
		t.Error("forwarded document lost firmware key")
	}
}

func TestHandleConfigWithoutCallback(t *testing.T) {
	n, _ := testNode(t)

	// Must not panic with no firmware callback registered.
	n.handleConfig(jsondoc.MustParse(`{"hassDiscoveryEnabled":true}`))
}

// =============================================================================
// Command Dispatch Tests
// =============================================================================

func TestHandleCommandRestart(t *testing.T) {
	driver := &fakeDriver{}
	restarted := false
	n, err := New(Deps{
		Config:      config.Default(),
		Logger:      logging.Default(),
		Driver:      driver,
		RestartFunc: func() { restarted = true },
	})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	forwarded := false
	n.OnCommand(func(*jsondoc.Doc) { forwarded = true })

	n.handleCommand(jsondoc.MustParse(`{"restart":true}`))

	if !restarted {
		t.Error("restart command did not invoke the restart function")
	}
	if forwarded {
		t.Error("restart command was forwarded to the firmware callback")
	}
}

func TestHandleCommandRestartFalse(t *testing.T) {
	n, _ := testNode(t)

	var received *jsondoc.Doc
	n.OnCommand(func(doc *jsondoc.Doc) { received = doc })

	n.handleCommand(jsondoc.MustParse(`{"restart":false}`))

	if received == nil {
		t.Fatal("command with restart:false not forwarded")
	}
}

func TestHandleCommandForwardsFirmwareCommands(t *testing.T) {
	n, _ := testNode(t)

	var received *jsondoc.Doc
	n.OnCommand(func(doc *jsondoc.Doc) { received = doc })

	n.handleCommand(jsondoc.MustParse(`{"identify":true}`))

	if received == nil {
		t.Fatal("firmware command callback not invoked")
	}
	identify, _ := received.Get("identify")
	if !identify.Bool() {
		t.Error("forwarded command lost its payload")
	}
}

// =============================================================================
// Broker Settings Tests
// =============================================================================

// testNodeWithStore attaches a real settings store to a test node.
func testNodeWithStore(t *testing.T) *Node {
	t.Helper()
	n, _ := testNode(t)

	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("settings.Open() = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	n.store = store
	return n
}

func TestHandleMQTTSettingsPersistsOverrides(t *testing.T) {
	n := testNodeWithStore(t)

	err := n.handleMQTTSettings(jsondoc.MustParse(
		`{"broker":"10.0.0.2","port":8883,"clientId":"attic","username":"u","password":"p","topicPrefix":"site","topicSuffix":"loft"}`,
	))
	if err != nil {
		t.Fatalf("handleMQTTSettings() = %v", err)
	}

	got, err := n.store.MQTTOverrides(context.Background())
	if err != nil {
		t.Fatalf("MQTTOverrides() = %v", err)
	}
	want := settings.MQTTOverrides{
		ClientID:    "attic",
		BrokerHost:  "10.0.0.2",
		BrokerPort:  8883,
		Username:    "u",
		Password:    "p",
		TopicPrefix: "site",
		TopicSuffix: "loft",
	}
	if got != want {
		t.Errorf("persisted overrides = %+v, want %+v", got, want)
	}
}

func TestHandleMQTTSettingsClearsAbsentFields(t *testing.T) {
	n := testNodeWithStore(t)

	if err := n.handleMQTTSettings(jsondoc.MustParse(
		`{"broker":"10.0.0.2","port":8883,"clientId":"attic"}`,
	)); err != nil {
		t.Fatalf("handleMQTTSettings() = %v", err)
	}

	// The next document replaces the stored overrides wholesale; fields
	// it omits stop overriding the configured defaults.
	if err := n.handleMQTTSettings(jsondoc.MustParse(`{"broker":"10.0.0.3"}`)); err != nil {
		t.Fatalf("handleMQTTSettings() = %v", err)
	}

	got, err := n.store.MQTTOverrides(context.Background())
	if err != nil {
		t.Fatalf("MQTTOverrides() = %v", err)
	}
	if got.BrokerHost != "10.0.0.3" {
		t.Errorf("BrokerHost = %q, want %q", got.BrokerHost, "10.0.0.3")
	}
	if got.ClientID != "" || got.BrokerPort != 0 {
		t.Errorf("absent fields not cleared: client_id=%q port=%d", got.ClientID, got.BrokerPort)
	}
}

// =============================================================================
// Receive Observer Tests
// =============================================================================

func TestObserveReceiveFlashes(t *testing.T) {
	n, driver := testNode(t)

	n.observeReceive("conf/abc123", mqtt.ReceiveOK)

	if len(driver.writes) == 0 {
		t.Fatal("receive did not touch the indicator")
	}
	want := indicator.Color{R: 255, G: 255}
	if driver.writes[len(driver.writes)-1] != want {
		t.Errorf("receive flash colour = %v, want %v", driver.writes[len(driver.writes)-1], want)
	}
}

func TestObserveReceiveFaultIsLogOnly(t *testing.T) {
	n, _ := testNode(t)

	// A fault must not panic or stop processing.
	n.observeReceive("conf/abc123", mqtt.ReceiveDecodeError)
	n.observeReceive("cmnd/abc123", mqtt.ReceiveZeroLength)
}
