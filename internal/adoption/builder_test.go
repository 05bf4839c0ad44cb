package adoption

import (
	"net"
	"testing"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
	"github.com/edgenode-io/edgenode/internal/schema"
	"github.com/edgenode-io/edgenode/internal/sysinfo"
)

// fakeIntrospector returns fixed counters so descriptor contents are
// deterministic.
type fakeIntrospector struct {
	stats sysinfo.Stats
}

func (f *fakeIntrospector) Stats() sysinfo.Stats { return f.stats }

// fakeTransport is a canned network capability.
type fakeTransport struct {
	mode   string
	linkUp bool
	ip     net.IP
	mac    net.HardwareAddr
}

func (f *fakeTransport) Mode() string                   { return f.mode }
func (f *fakeTransport) LinkUp() bool                   { return f.linkUp }
func (f *fakeTransport) LocalAddr() net.IP              { return f.ip }
func (f *fakeTransport) HardwareAddr() net.HardwareAddr { return f.mac }
func (f *fakeTransport) Maintain() error                { return nil }

func testBuilder() *Builder {
	return &Builder{
		Firmware: config.FirmwareConfig{
			Name:      "Edgenode Test Firmware",
			ShortName: "edgenode-test",
			Maker:     "edgenode-io",
			Version:   "1.2.3",
			GithubURL: "https://github.com/edgenode-io/edgenode",
		},
		System: &fakeIntrospector{stats: sysinfo.Stats{
			HeapUsed:          1000,
			HeapFree:          2000,
			FlashChipSize:     4194304,
			ProgramSpaceUsed:  300000,
			ProgramSpaceTotal: 1044464,
			FileSystemUsed:    500,
			FileSystemTotal:   1953282,
		}},
		Network: &fakeTransport{
			mode:   "ethernet",
			linkUp: true,
			ip:     net.IPv4(192, 168, 1, 99).To4(),
			mac:    net.HardwareAddr{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01},
		},
		Schemas: schema.NewRegistry(),
	}
}

func getString(t *testing.T, doc *jsondoc.Doc, path ...string) string {
	t.Helper()
	cur := doc
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			t.Fatalf("descriptor missing %v", path)
		}
		cur = next
	}
	return cur.Str()
}

// =============================================================================
// Descriptor Content Tests
// =============================================================================

func TestBuildSectionOrder(t *testing.T) {
	doc := testBuilder().Build()

	want := []string{"firmware", "system", "network", "configSchema", "commandSchema"}
	got := doc.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildFirmwareSection(t *testing.T) {
	doc := testBuilder().Build()

	if got := getString(t, doc, "firmware", "name"); got != "Edgenode Test Firmware" {
		t.Errorf("firmware.name = %q", got)
	}
	if got := getString(t, doc, "firmware", "shortName"); got != "edgenode-test" {
		t.Errorf("firmware.shortName = %q", got)
	}
	if got := getString(t, doc, "firmware", "maker"); got != "edgenode-io" {
		t.Errorf("firmware.maker = %q", got)
	}
	if got := getString(t, doc, "firmware", "version"); got != "1.2.3" {
		t.Errorf("firmware.version = %q", got)
	}
	if got := getString(t, doc, "firmware", "githubUrl"); got != "https://github.com/edgenode-io/edgenode" {
		t.Errorf("firmware.githubUrl = %q", got)
	}
}

func TestBuildOmitsEmptyGithubURL(t *testing.T) {
	b := testBuilder()
	b.Firmware.GithubURL = ""

	fw, _ := b.Build().Get("firmware")
	if fw.Has("githubUrl") {
		t.Error("firmware.githubUrl present for empty config value")
	}
}

func TestBuildSystemSection(t *testing.T) {
	doc := testBuilder().Build()

	sys, ok := doc.Get("system")
	if !ok {
		t.Fatal("descriptor missing system section")
	}

	checks := []struct {
		key  string
		want uint64
	}{
		{"heapUsedBytes", 1000},
		{"heapFreeBytes", 2000},
		{"flashChipSizeBytes", 4194304},
		{"sketchSpaceUsedBytes", 300000},
		{"sketchSpaceTotalBytes", 1044464},
		{"fileSystemUsedBytes", 500},
		{"fileSystemTotalBytes", 1953282},
	}
	for _, c := range checks {
		field, ok := sys.Get(c.key)
		if !ok {
			t.Errorf("system.%s missing", c.key)
			continue
		}
		got, err := field.Number().Int64()
		if err != nil || uint64(got) != c.want {
			t.Errorf("system.%s = %v, want %d", c.key, field.Number(), c.want)
		}
	}
}

func TestBuildNetworkSection(t *testing.T) {
	doc := testBuilder().Build()

	if got := getString(t, doc, "network", "mode"); got != "ethernet" {
		t.Errorf("network.mode = %q, want %q", got, "ethernet")
	}
	if got := getString(t, doc, "network", "ip"); got != "192.168.1.99" {
		t.Errorf("network.ip = %q, want %q", got, "192.168.1.99")
	}
	if got := getString(t, doc, "network", "mac"); got != "DE:AD:BE:EF:00:01" {
		t.Errorf("network.mac = %q, want %q", got, "DE:AD:BE:EF:00:01")
	}
}

func TestBuildUnassignedAddress(t *testing.T) {
	b := testBuilder()
	b.Network = &fakeTransport{
		mode: "wifi",
		mac:  net.HardwareAddr{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01},
	}

	if got := getString(t, b.Build(), "network", "ip"); got != "" {
		t.Errorf("network.ip = %q for unassigned address, want empty", got)
	}
}

func TestBuildIncludesFirmwareSchemaFragment(t *testing.T) {
	b := testBuilder()
	b.Schemas.SetConfigSchema(jsondoc.MustParse(`{"foo":{"type":"string"}}`))

	doc := b.Build()
	if got := getString(t, doc, "configSchema", "properties", "foo", "type"); got != "string" {
		t.Errorf("configSchema.properties.foo.type = %q, want %q", got, "string")
	}
	// Built-ins ride alongside.
	if got := getString(t, doc, "configSchema", "properties", "hassDiscoveryEnabled", "type"); got != "boolean" {
		t.Errorf("configSchema.properties.hassDiscoveryEnabled.type = %q, want %q", got, "boolean")
	}
	if got := getString(t, doc, "configSchema", "title"); got != "edgenode-test" {
		t.Errorf("configSchema.title = %q, want firmware short name", got)
	}
}

func TestBuildCommandSchemaHasRestart(t *testing.T) {
	doc := testBuilder().Build()

	if got := getString(t, doc, "commandSchema", "properties", "restart", "type"); got != "boolean" {
		t.Errorf("commandSchema.properties.restart.type = %q, want %q", got, "boolean")
	}
}
