package discovery

import (
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// availabilityTemplate extracts the online flag from the retained
// availability payload for Home Assistant.
const availabilityTemplate = "{% if value_json.online == true %}online{% else %}offline{% endif %}"

// BuildRecord pre-fills a discovery record for one entity.
//
// Parameters:
//   - id: Entity id, unique within this node (e.g. "temperature")
//   - name: Human-readable entity name
//   - telemetry: When true the state topic is the telemetry topic,
//     otherwise the status topic
//
// Returns:
//   - *jsondoc.Doc: Record with identifiers, topics, availability
//     template, and device block filled in; callers add entity-specific
//     fields (value_tpl, dev_cla, unit_of_meas, ...) before publishing
func (p *Publisher) BuildRecord(id, name string, telemetry bool) *jsondoc.Doc {
	topics := p.Topics()
	clientID := topics.ClientID

	record := jsondoc.NewObject()
	record.Set("uniq_id", jsondoc.NewString(clientID+"_"+id))
	record.Set("obj_id", jsondoc.NewString(clientID+"_"+id))
	record.Set("name", jsondoc.NewString(name))

	if telemetry {
		record.Set("stat_t", jsondoc.NewString(topics.TelemetryTopic()))
	} else {
		record.Set("stat_t", jsondoc.NewString(topics.StatusTopic()))
	}

	record.Set("avty_t", jsondoc.NewString(topics.AvailabilityTopic()))
	record.Set("avty_tpl", jsondoc.NewString(availabilityTemplate))

	// The device is named after the node's client id; the firmware name
	// is the model, so one hub shows many nodes running the same firmware.
	dev := record.SetObject("dev")
	dev.Set("name", jsondoc.NewString(clientID))
	dev.Set("mf", jsondoc.NewString(p.Firmware.Maker))
	dev.Set("mdl", jsondoc.NewString(p.Firmware.Name))
	dev.Set("sw", jsondoc.NewString(p.Firmware.Version))
	ids := jsondoc.NewArray()
	ids.Append(jsondoc.NewString(clientID))
	dev.Set("ids", ids)

	return record
}
