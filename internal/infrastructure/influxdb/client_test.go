package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/sysinfo"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() = %v, want ErrDisabled", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection test in short mode")
	}

	_, err := Connect(config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // Nothing listens here
		Token:   "token",
		Org:     "org",
		Bucket:  "bucket",
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() = %v, want ErrConnectionFailed", err)
	}
}

func TestHealthCheckNotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() = %v, want ErrNotConnected", err)
	}
}

func TestCloseBeforeConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestWritesIgnoredWhenDisconnected(t *testing.T) {
	c := &Client{}

	// Must not panic on the nil write API.
	c.WriteResourceSnapshot("abc123", sysinfo.Stats{HeapUsed: 1000}, 42.0)
	c.Flush()
}
