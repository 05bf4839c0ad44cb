// Package adoption builds the descriptor a controller reads to adopt a
// node: firmware identity, live resource counters, network addressing,
// and the composed config/command schemas.
//
// The descriptor is assembled fresh on every Build call so the resource
// counters and link state are current at publish time. It is served from
// the REST adoption endpoint and published retained to the adoption topic
// on every broker connect.
package adoption
