package mqtt

import (
	"testing"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// newTestClient returns an unstarted client with a resolved identity,
// which is all Receive needs.
func newTestClient() *Client {
	c := New(config.MQTTConfig{})
	c.SetClientID("a1b2c3")
	return c
}

// =============================================================================
// Receive Routing Tests
// =============================================================================

func TestReceiveConfig(t *testing.T) {
	c := newTestClient()

	var got *jsondoc.Doc
	c.OnConfig(func(doc *jsondoc.Doc) { got = doc })

	code := c.Receive("conf/a1b2c3", []byte(`{"hassDiscoveryEnabled":true}`))
	if code != ReceiveOK {
		t.Fatalf("Receive() = %v, want ReceiveOK", code)
	}
	if got == nil || !got.Has("hassDiscoveryEnabled") {
		t.Errorf("config handler received %v, want decoded document", got)
	}
}

func TestReceiveCommand(t *testing.T) {
	c := newTestClient()

	var got *jsondoc.Doc
	c.OnCommand(func(doc *jsondoc.Doc) { got = doc })

	code := c.Receive("cmnd/a1b2c3", []byte(`{"restart":false}`))
	if code != ReceiveOK {
		t.Fatalf("Receive() = %v, want ReceiveOK", code)
	}
	if got == nil || !got.Has("restart") {
		t.Errorf("command handler received %v, want decoded document", got)
	}
}

func TestReceiveZeroLength(t *testing.T) {
	c := newTestClient()

	if code := c.Receive("conf/a1b2c3", nil); code != ReceiveZeroLength {
		t.Errorf("Receive(empty) = %v, want ReceiveZeroLength", code)
	}
}

func TestReceiveDecodeError(t *testing.T) {
	c := newTestClient()

	// Malformed JSON and trailing garbage are the same fault class.
	for _, payload := range []string{`{broken`, `{} extra`} {
		if code := c.Receive("conf/a1b2c3", []byte(payload)); code != ReceiveDecodeError {
			t.Errorf("Receive(%q) = %v, want ReceiveDecodeError", payload, code)
		}
	}
}

func TestReceiveNoConfigHandler(t *testing.T) {
	c := newTestClient()

	if code := c.Receive("conf/a1b2c3", []byte(`{}`)); code != ReceiveNoConfigHandler {
		t.Errorf("Receive() = %v, want ReceiveNoConfigHandler", code)
	}
}

func TestReceiveNoCommandHandler(t *testing.T) {
	c := newTestClient()

	if code := c.Receive("cmnd/a1b2c3", []byte(`{}`)); code != ReceiveNoCommandHandler {
		t.Errorf("Receive() = %v, want ReceiveNoCommandHandler", code)
	}
}

func TestReceiveFaultDoesNotStopNextMessage(t *testing.T) {
	c := newTestClient()

	handled := 0
	c.OnCommand(func(*jsondoc.Doc) { handled++ })

	c.Receive("cmnd/a1b2c3", []byte(`{broken`))
	if code := c.Receive("cmnd/a1b2c3", []byte(`{"go":true}`)); code != ReceiveOK {
		t.Fatalf("Receive() after fault = %v, want ReceiveOK", code)
	}
	if handled != 1 {
		t.Errorf("handled = %d messages, want 1", handled)
	}
}

func TestReceiveUnknownTopicIgnored(t *testing.T) {
	c := newTestClient()

	called := false
	c.OnConfig(func(*jsondoc.Doc) { called = true })
	c.OnCommand(func(*jsondoc.Doc) { called = true })

	if code := c.Receive("stat/other", []byte(`{}`)); code != ReceiveOK {
		t.Errorf("Receive(unknown topic) = %v, want ReceiveOK", code)
	}
	if called {
		t.Error("handler invoked for unknown topic")
	}
}

// =============================================================================
// ReceiveCode Tests
// =============================================================================

func TestReceiveCodeMessages(t *testing.T) {
	tests := []struct {
		code ReceiveCode
		want string
	}{
		{ReceiveZeroLength, "empty mqtt payload received"},
		{ReceiveDecodeError, "failed to deserialise mqtt json payload"},
		{ReceiveNoConfigHandler, "no mqtt config handler"},
		{ReceiveNoCommandHandler, "no mqtt command handler"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ReceiveCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
