package node

import (
	"net/http"

	"github.com/edgenode-io/edgenode/internal/discovery"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// PublishStatus publishes a state document to the status topic.
//
// Returns:
//   - bool: true if the document reached the broker
func (n *Node) PublishStatus(doc *jsondoc.Doc) bool {
	if n.broker == nil {
		return false
	}
	if err := n.broker.PublishStatus(doc); err != nil {
		n.logger.Warn("status publish failed", "error", err)
		return false
	}
	n.light.FlashTransmit()
	return true
}

// PublishTelemetry publishes a telemetry document to the telemetry
// topic and mirrors it to the telemetry store when one is connected.
//
// Returns:
//   - bool: true if the document reached the broker
func (n *Node) PublishTelemetry(doc *jsondoc.Doc) bool {
	if n.broker == nil {
		return false
	}
	if err := n.broker.PublishTelemetry(doc); err != nil {
		n.logger.Warn("telemetry publish failed", "error", err)
		return false
	}
	n.light.FlashTransmit()

	if n.mirror != nil {
		n.mirror.WriteTelemetry(n.broker.ClientID(), doc)
	}
	return true
}

// Discovery returns the Home Assistant discovery publisher. Nil before
// Begin.
func (n *Node) Discovery() *discovery.Publisher {
	return n.publisher
}

// ClientID returns the resolved broker client id. Empty before Begin.
func (n *Node) ClientID() string {
	if n.broker == nil {
		return ""
	}
	return n.broker.ClientID()
}

// RegisterGet buffers a firmware GET route, mounted when Begin starts
// the API server.
func (n *Node) RegisterGet(pattern string, handler http.HandlerFunc) {
	n.routes = append(n.routes, route{method: http.MethodGet, pattern: pattern, handler: handler})
}

// RegisterPost buffers a firmware POST route.
func (n *Node) RegisterPost(pattern string, handler http.HandlerFunc) {
	n.routes = append(n.routes, route{method: http.MethodPost, pattern: pattern, handler: handler})
}
