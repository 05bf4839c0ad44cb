package schema

import (
	"sync"

	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// Version is the JSON Schema dialect advertised in composed schemas.
const Version = "http://json-schema.org/draft-07/schema#"

// Property keys owned by this core. Firmware fragments may redeclare
// them, but the built-in definition wins at merge time.
const (
	KeyRestart                  = "restart"
	KeyHassDiscoveryEnabled     = "hassDiscoveryEnabled"
	KeyHassDiscoveryTopicPrefix = "hassDiscoveryTopicPrefix"
)

// Registry holds the firmware-declared config and command schema
// fragments and composes them with the built-ins on demand.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Registry struct {
	mu        sync.RWMutex
	fwConfig  *jsondoc.Doc
	fwCommand *jsondoc.Doc
}

// NewRegistry returns a registry with no firmware-declared fragments.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetConfigSchema replaces the firmware config schema fragment.
// Each call clears the previous fragment and rebuilds from scratch;
// the stored copy never aliases the caller's document.
func (r *Registry) SetConfigSchema(doc *jsondoc.Doc) {
	fragment := jsondoc.NewObject()
	jsondoc.Merge(fragment, doc)

	r.mu.Lock()
	r.fwConfig = fragment
	r.mu.Unlock()
}

// SetCommandSchema replaces the firmware command schema fragment.
func (r *Registry) SetCommandSchema(doc *jsondoc.Doc) {
	fragment := jsondoc.NewObject()
	jsondoc.Merge(fragment, doc)

	r.mu.Lock()
	r.fwCommand = fragment
	r.mu.Unlock()
}

// ConfigProperties merges the firmware config fragment with the built-in
// discovery options into a fresh document. Built-ins are merged last, so
// they win on key collision.
func (r *Registry) ConfigProperties() *jsondoc.Doc {
	r.mu.RLock()
	fw := r.fwConfig
	r.mu.RUnlock()

	properties := jsondoc.NewObject()
	jsondoc.Merge(properties, fw)
	jsondoc.Merge(properties, builtinConfigProperties())
	return properties
}

// CommandProperties merges the firmware command fragment with the
// built-in restart command into a fresh document.
func (r *Registry) CommandProperties() *jsondoc.Doc {
	r.mu.RLock()
	fw := r.fwCommand
	r.mu.RUnlock()

	properties := jsondoc.NewObject()
	jsondoc.Merge(properties, fw)
	jsondoc.Merge(properties, builtinCommandProperties())
	return properties
}

// ComposeConfigSchema builds the full config schema document with dialect
// metadata and the merged properties.
func (r *Registry) ComposeConfigSchema(title string) *jsondoc.Doc {
	return compose(title, r.ConfigProperties())
}

// ComposeCommandSchema builds the full command schema document.
func (r *Registry) ComposeCommandSchema(title string) *jsondoc.Doc {
	return compose(title, r.CommandProperties())
}

func compose(title string, properties *jsondoc.Doc) *jsondoc.Doc {
	doc := jsondoc.NewObject()
	doc.Set("$schema", jsondoc.NewString(Version))
	doc.Set("title", jsondoc.NewString(title))
	doc.Set("type", jsondoc.NewString("object"))
	doc.Set("properties", properties)
	return doc
}

// builtinConfigProperties returns the discovery options this core handles
// itself in the config dispatcher.
func builtinConfigProperties() *jsondoc.Doc {
	properties := jsondoc.NewObject()

	enabled := properties.SetObject(KeyHassDiscoveryEnabled)
	enabled.Set("title", jsondoc.NewString("Home Assistant Discovery"))
	enabled.Set("description", jsondoc.NewString("Publish Home Assistant discovery config (defaults to 'false')."))
	enabled.Set("type", jsondoc.NewString("boolean"))

	prefix := properties.SetObject(KeyHassDiscoveryTopicPrefix)
	prefix.Set("title", jsondoc.NewString("Home Assistant Discovery Topic Prefix"))
	prefix.Set("description", jsondoc.NewString("Prefix for the Home Assistant discovery topic (defaults to 'homeassistant')."))
	prefix.Set("type", jsondoc.NewString("string"))

	return properties
}

// builtinCommandProperties returns the commands this core handles itself
// in the command dispatcher.
func builtinCommandProperties() *jsondoc.Doc {
	properties := jsondoc.NewObject()

	restart := properties.SetObject(KeyRestart)
	restart.Set("title", jsondoc.NewString("Restart"))
	restart.Set("type", jsondoc.NewString("boolean"))

	return properties
}
