package adoption

import (
	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/schema"
	"github.com/edgenode-io/edgenode/internal/sysinfo"
	"github.com/edgenode-io/edgenode/internal/transport"
)

// Builder assembles adoption descriptors from the node's capability
// providers. All fields are required.
type Builder struct {
	Firmware config.FirmwareConfig
	System   sysinfo.Introspector
	Network  transport.Transport
	Schemas  *schema.Registry
}

// Build assembles a fresh adoption descriptor.
//
// Section order is fixed: firmware, system, network, configSchema,
// commandSchema. Counters and link state are read at call time, so two
// descriptors built at different moments may differ in the system and
// network sections while the firmware section stays constant.
func (b *Builder) Build() *jsondoc.Doc {
	doc := jsondoc.NewObject()

	fw := doc.SetObject("firmware")
	fw.Set("name", jsondoc.NewString(b.Firmware.Name))
	fw.Set("shortName", jsondoc.NewString(b.Firmware.ShortName))
	fw.Set("maker", jsondoc.NewString(b.Firmware.Maker))
	fw.Set("version", jsondoc.NewString(b.Firmware.Version))
	if b.Firmware.GithubURL != "" {
		fw.Set("githubUrl", jsondoc.NewString(b.Firmware.GithubURL))
	}

	stats := b.System.Stats()
	sys := doc.SetObject("system")
	sys.Set("heapUsedBytes", jsondoc.NewUint(stats.HeapUsed))
	sys.Set("heapFreeBytes", jsondoc.NewUint(stats.HeapFree))
	sys.Set("flashChipSizeBytes", jsondoc.NewUint(stats.FlashChipSize))
	sys.Set("sketchSpaceUsedBytes", jsondoc.NewUint(stats.ProgramSpaceUsed))
	sys.Set("sketchSpaceTotalBytes", jsondoc.NewUint(stats.ProgramSpaceTotal))
	sys.Set("fileSystemUsedBytes", jsondoc.NewUint(stats.FileSystemUsed))
	sys.Set("fileSystemTotalBytes", jsondoc.NewUint(stats.FileSystemTotal))

	net := doc.SetObject("network")
	net.Set("mode", jsondoc.NewString(b.Network.Mode()))
	if ip := b.Network.LocalAddr(); ip != nil {
		net.Set("ip", jsondoc.NewString(ip.String()))
	} else {
		net.Set("ip", jsondoc.NewString(""))
	}
	net.Set("mac", jsondoc.NewString(transport.FormatMAC(b.Network.HardwareAddr())))

	doc.Set("configSchema", b.Schemas.ComposeConfigSchema(b.Firmware.ShortName))
	doc.Set("commandSchema", b.Schemas.ComposeCommandSchema(b.Firmware.ShortName))

	return doc
}
