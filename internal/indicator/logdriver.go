package indicator

// LogDriverLogger is the logging capability LogDriver needs (compatible
// with logging.Logger).
type LogDriverLogger interface {
	Debug(msg string, args ...any)
}

// LogDriver renders colour changes as debug log lines. It stands in for
// a hardware light on hosts without one; the steady-state colour is
// still visible in the logs and over the MQTT log mirror.
type LogDriver struct {
	Logger LogDriverLogger
}

// SetRGBW implements Driver.
func (d *LogDriver) SetRGBW(c Color) {
	d.Logger.Debug("indicator colour",
		"r", c.R,
		"g", c.G,
		"b", c.B,
		"w", c.W,
	)
}
