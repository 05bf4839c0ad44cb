// Package schema composes the configuration and command schemas a
// controller uses to render device settings.
//
// Two sources feed each schema: the firmware-declared fragment, replaced
// wholesale on every SetConfigSchema/SetCommandSchema call, and the
// built-in fragment owned by this core (the restart command and the Home
// Assistant discovery options). The two are merged at read time, firmware
// first, so on a key collision the built-in definition wins.
//
// The registry is mutex-guarded: firmware setup calls and adoption builds
// may come from different goroutines (MQTT connect callback vs. REST).
package schema
