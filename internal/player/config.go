package player

import "time"

type Config struct {
	// SyncInterval is the cadence of periodic progress reports.
	SyncInterval time.Duration
	// MinReportPercent is the watched percent a periodic report must exceed
	// to be sent.
	MinReportPercent int
	// WatermarkInterval is the cadence of watermark relocation.
	WatermarkInterval time.Duration
	// ViewportInterval is the cadence of the devtools-size heuristic.
	ViewportInterval time.Duration
	// ViewportThresholdPx is the outer/inner window delta beyond which the
	// heuristic force-pauses playback.
	ViewportThresholdPx int
	// WarningTTL is how long a warning stays up before it clears itself.
	WarningTTL time.Duration
	// ControlsHideDelay is how long the control surface stays visible
	// during playback without user activity.
	ControlsHideDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.SyncInterval <= 0 {
		c.SyncInterval = 30 * time.Second
	}
	if c.MinReportPercent <= 0 {
		c.MinReportPercent = 10
	}
	if c.WatermarkInterval <= 0 {
		c.WatermarkInterval = 15 * time.Second
	}
	if c.ViewportInterval <= 0 {
		c.ViewportInterval = 2 * time.Second
	}
	if c.ViewportThresholdPx <= 0 {
		c.ViewportThresholdPx = 160
	}
	if c.WarningTTL <= 0 {
		c.WarningTTL = 5 * time.Second
	}
	if c.ControlsHideDelay <= 0 {
		c.ControlsHideDelay = 3 * time.Second
	}

	return c
}
