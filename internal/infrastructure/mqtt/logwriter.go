package mqtt

// LogWriter is an io.Writer that mirrors log lines to the device's log
// topic. It is attached to the logging fanout after the first successful
// connect, giving operators remote visibility without a separate agent.
//
// Writes while disconnected are dropped: log mirroring is best-effort and
// must never block or fail the primary log output.
type LogWriter struct {
	client *Client
}

// NewLogWriter creates a log mirror for the client.
func NewLogWriter(client *Client) *LogWriter {
	return &LogWriter{client: client}
}

// Write publishes one log line to the log topic, QoS 0, not retained.
// It always reports full success so the fanout never sees mirror faults.
func (w *LogWriter) Write(p []byte) (int, error) {
	if w.client.IsConnected() {
		// Fire and forget; waiting for an ack per log line would stall logging.
		w.client.client.Publish(w.client.Topics().LogTopic(), 0, false, append([]byte(nil), p...))
	}
	return len(p), nil
}
