package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edgenode-io/edgenode/internal/adoption"
	"github.com/edgenode-io/edgenode/internal/api"
	"github.com/edgenode-io/edgenode/internal/discovery"
	"github.com/edgenode-io/edgenode/internal/indicator"
	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/infrastructure/influxdb"
	"github.com/edgenode-io/edgenode/internal/infrastructure/logging"
	"github.com/edgenode-io/edgenode/internal/infrastructure/mqtt"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/schema"
	"github.com/edgenode-io/edgenode/internal/settings"
	"github.com/edgenode-io/edgenode/internal/sysinfo"
	"github.com/edgenode-io/edgenode/internal/transport"
)

// snapshotInterval is how often resource snapshots are mirrored to the
// telemetry store.
const snapshotInterval = time.Minute

// Deps holds the dependencies required by the node.
type Deps struct {
	Config  *config.Config
	Logger  *logging.Logger
	Version string

	// Fanout, when set, receives the broker log mirror handler so log
	// lines also reach the device's log topic.
	Fanout *logging.Fanout

	// RestartFunc replaces the process-exit restart. It must not return.
	RestartFunc func()

	// Driver overrides the indicator driver chosen from configuration.
	Driver indicator.Driver
}

// route buffers a firmware HTTP handler registered before Begin.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// Node is the device-management core.
//
// Create with New, wire firmware schemas/callbacks/routes, then call
// Begin followed by Run. Close shuts everything down in reverse order.
type Node struct {
	cfg     *config.Config
	logger  *logging.Logger
	fanout  *logging.Fanout
	version string

	schemas *schema.Registry
	disco   *discovery.State
	light   *indicator.Indicator
	system  sysinfo.Introspector

	network   transport.Transport
	broker    *mqtt.Client
	server    *api.Server
	store     *settings.Store
	mirror    *influxdb.Client
	publisher *discovery.Publisher
	builder   *adoption.Builder

	restartFunc func()
	routes      []route

	cbMu      sync.RWMutex
	onConfig  func(doc *jsondoc.Doc)
	onCommand func(doc *jsondoc.Doc)

	lastSnapshot time.Time
}

// New creates a node from configuration. Nothing is brought up until
// Begin is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger)
//
// Returns:
//   - *Node: Node ready for firmware wiring and Begin
//   - error: If required dependencies are missing
func New(deps Deps) (*Node, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	n := &Node{
		cfg:         deps.Config,
		logger:      deps.Logger,
		fanout:      deps.Fanout,
		version:     deps.Version,
		schemas:     schema.NewRegistry(),
		disco:       discovery.NewState(),
		system:      sysinfo.NewHost(filepath.Dir(deps.Config.Settings.Path)),
		restartFunc: deps.RestartFunc,
	}

	driver := deps.Driver
	if driver == nil {
		if deps.Config.LED.Enabled {
			driver = &indicator.LogDriver{Logger: deps.Logger}
		} else {
			driver = indicator.Nop{}
		}
	}
	n.light = indicator.New(driver, deps.Config.ActivityFlashTimeout())

	if n.restartFunc == nil {
		n.restartFunc = func() {
			// The supervisor (systemd or similar) brings the process back.
			os.Exit(0)
		}
	}

	return n, nil
}

// Begin brings the node up.
//
// Startup order is fixed and mirrors the connectivity dependencies:
//  1. Indicator boot sequence
//  2. Network transport (MAC identity read here)
//  3. Settings store
//  4. Broker client: MAC-derived default client id, then persisted
//     overrides, then connect (non-blocking; retried in the background)
//  5. REST API with the adoption endpoint and firmware routes
//  6. Optional telemetry mirror
//
// Parameters:
//   - ctx: Context for store reads during startup
//
// Returns:
//   - error: If the transport, store, broker identity, or API fail
func (n *Node) Begin(ctx context.Context) error {
	n.light.Boot()

	link, err := transport.New(n.cfg.Network)
	if err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}
	n.network = link
	if err := link.Maintain(); err != nil {
		n.logger.Warn("initial link state read failed", "error", err)
	}

	mac := link.HardwareAddr()
	n.logger.Info("network transport up",
		"mode", link.Mode(),
		"interface", n.cfg.Network.Interface,
		"mac", transport.FormatMAC(mac),
		"link_up", link.LinkUp(),
	)

	store, err := settings.Open(n.cfg.Settings.Path)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	n.store = store

	if err := n.startBroker(ctx, mac); err != nil {
		return err
	}

	if err := n.startAPI(ctx); err != nil {
		return err
	}

	n.startMirror()

	n.logger.Info("node up",
		"client_id", n.broker.ClientID(),
		"version", n.version,
	)
	return nil
}

// startBroker resolves the broker identity and starts the client.
//
// Identity precedence, lowest to highest: MAC-derived default,
// configuration, persisted overrides.
func (n *Node) startBroker(ctx context.Context, mac []byte) error {
	n.broker = mqtt.New(n.cfg.MQTT)
	n.broker.SetLogger(n.logger)

	if n.cfg.MQTT.Broker.ClientID == "" {
		n.broker.SetClientID(transport.DefaultClientID(mac))
	}

	overrides, err := n.store.MQTTOverrides(ctx)
	if err != nil {
		return fmt.Errorf("loading broker overrides: %w", err)
	}
	n.applyOverrides(overrides)

	if err := n.restoreDiscoveryState(ctx); err != nil {
		n.logger.Warn("restoring discovery state failed", "error", err)
	}

	n.builder = &adoption.Builder{
		Firmware: n.cfg.Firmware,
		System:   n.system,
		Network:  n.network,
		Schemas:  n.schemas,
	}

	n.publisher = &discovery.Publisher{
		State:     n.disco,
		Broker:    n.broker,
		Link:      n.network,
		Firmware:  n.cfg.Firmware,
		QoS:       byte(n.cfg.MQTT.QoS),
		Topics:    n.broker.Topics,
		OnPublish: n.light.FlashTransmit,
		Logger:    n.logger,
	}

	n.broker.OnConnected(n.handleConnected)
	n.broker.OnDisconnected(n.handleDisconnected)
	n.broker.OnConfig(n.handleConfig)
	n.broker.OnCommand(n.handleCommand)
	n.broker.OnMessage(n.observeReceive)

	// Mirror log lines to the log topic. The writer drops lines while
	// disconnected, so attaching before connect is safe.
	if n.fanout != nil {
		writer := mqtt.NewLogWriter(n.broker)
		n.fanout.Add(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if err := n.broker.Start(); err != nil {
		return fmt.Errorf("starting broker client: %w", err)
	}
	return nil
}

// applyOverrides applies persisted broker overrides over the defaults.
func (n *Node) applyOverrides(o settings.MQTTOverrides) {
	if o.ClientID != "" {
		n.broker.SetClientID(o.ClientID)
	}
	if o.BrokerHost != "" || o.BrokerPort != 0 {
		host := n.cfg.MQTT.Broker.Host
		port := n.cfg.MQTT.Broker.Port
		if o.BrokerHost != "" {
			host = o.BrokerHost
		}
		if o.BrokerPort != 0 {
			port = o.BrokerPort
		}
		n.broker.SetBroker(host, port)
	}
	if o.Username != "" {
		n.broker.SetAuth(o.Username, o.Password)
	}
	if o.TopicPrefix != "" {
		n.broker.SetTopicPrefix(o.TopicPrefix)
	}
	if o.TopicSuffix != "" {
		n.broker.SetTopicSuffix(o.TopicSuffix)
	}
}

// restoreDiscoveryState reloads the persisted discovery state so an
// enabled node comes back enabled after a restart.
func (n *Node) restoreDiscoveryState(ctx context.Context) error {
	state, ok, err := n.store.DiscoveryState(ctx)
	if err != nil || !ok {
		return err
	}

	n.disco.SetEnabled(state.Enabled)
	if state.TopicPrefix != "" {
		if err := n.disco.SetTopicPrefix(state.TopicPrefix); err != nil {
			n.logger.Warn("persisted discovery prefix rejected", "error", err)
		}
	}
	return nil
}

// startAPI builds and starts the REST server with the buffered firmware
// routes mounted.
func (n *Node) startAPI(ctx context.Context) error {
	server, err := api.New(api.Deps{
		Config:         n.cfg.API,
		Logger:         n.logger,
		Version:        n.version,
		Adoption:       n.builder.Build,
		ConfigHandler:  n.handleConfig,
		CommandHandler: n.handleCommand,
		MQTTHandler:    n.handleMQTTSettings,
		Restart:        n.Restart,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	for _, r := range n.routes {
		switch r.method {
		case http.MethodGet:
			server.RegisterGet(r.pattern, r.handler)
		case http.MethodPost:
			server.RegisterPost(r.pattern, r.handler)
		}
	}
	n.server = server

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting api server: %w", err)
	}
	return nil
}

// startMirror connects the optional telemetry mirror. A mirror that is
// down is logged and skipped; it never blocks node startup.
func (n *Node) startMirror() {
	if !n.cfg.InfluxDB.Enabled {
		return
	}

	mirror, err := influxdb.Connect(n.cfg.InfluxDB)
	if err != nil {
		n.logger.Warn("telemetry mirror unavailable", "error", err)
		return
	}
	mirror.SetOnError(func(err error) {
		n.logger.Warn("telemetry mirror write failed", "error", err)
	})
	n.mirror = mirror
}

// handleConnected runs on initial connect and every reconnect.
func (n *Node) handleConnected() {
	n.logger.Info("broker connected", "client_id", n.broker.ClientID())

	doc := n.builder.Build()
	if err := n.broker.PublishAdoption(doc); err != nil {
		n.logger.Warn("adoption publish failed", "error", err)
		return
	}
	n.light.FlashTransmit()
}

// handleDisconnected runs when the broker connection drops.
func (n *Node) handleDisconnected(reason mqtt.DisconnectReason) {
	n.logger.Warn("broker disconnected", "reason", reason.String())
}

// Tick runs one maintenance pass: refresh link state, update the
// indicator, and mirror a resource snapshot when one is due.
func (n *Node) Tick() {
	if n.network != nil {
		if err := n.network.Maintain(); err != nil {
			n.logger.Warn("link maintenance failed", "error", err)
		}
	}

	n.light.Update(n.status())

	if n.mirror != nil && time.Since(n.lastSnapshot) >= snapshotInterval {
		n.lastSnapshot = time.Now()
		n.mirror.WriteResourceSnapshot(n.broker.ClientID(), n.system.Stats(), sysinfo.MemoryPressure())
	}
}

// status derives the connectivity level shown on the indicator.
func (n *Node) status() indicator.Status {
	if n.network == nil || !n.network.LinkUp() {
		return indicator.StatusNoNetwork
	}
	if n.broker == nil || !n.broker.IsConnected() {
		return indicator.StatusNoBroker
	}
	return indicator.StatusConnected
}

// Run drives Tick from a ticker until the context is cancelled.
//
// Parameters:
//   - ctx: Cancel to stop the loop
//
// Returns:
//   - error: Always nil; kept for symmetry with other run loops
func (n *Node) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.Tick()
		}
	}
}

// Restart logs and invokes the restart function. Does not return.
func (n *Node) Restart() {
	n.logger.Info("restarting node")
	n.restartFunc()
}

// Close shuts the node down in reverse startup order.
//
// Returns:
//   - error: Joined errors from the components that failed to close
func (n *Node) Close() error {
	var errs []error

	if n.server != nil {
		if err := n.server.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if n.broker != nil {
		if err := n.broker.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if n.mirror != nil {
		if err := n.mirror.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if n.store != nil {
		if err := n.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	n.light.Off()

	return errors.Join(errs...)
}

// HealthCheck verifies the node's components are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the first issue otherwise
func (n *Node) HealthCheck(ctx context.Context) error {
	if n.store != nil {
		if err := n.store.HealthCheck(ctx); err != nil {
			return err
		}
	}
	if n.server != nil {
		if err := n.server.HealthCheck(ctx); err != nil {
			return err
		}
	}
	if n.broker != nil {
		return n.broker.HealthCheck(ctx)
	}
	return nil
}
