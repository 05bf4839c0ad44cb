// Package discovery publishes Home Assistant MQTT discovery records.
//
// Discovery is off by default and switched at runtime by the
// hassDiscoveryEnabled / hassDiscoveryTopicPrefix config options the node
// dispatcher handles. Records are published retained to
//
//	{prefix}/{component}/{clientID}/{id}/config
//
// and cleared by publishing an empty object to the same topic. Record
// construction pre-fills the identifiers, availability template, and
// device block so firmware only adds its entity-specific fields.
package discovery
