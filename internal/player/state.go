package player

import "encoding/json"

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusEnded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEnded:
		return "ended"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type WarningKind string

const (
	WarningTabSwitch   WarningKind = "tab_switch"
	WarningAutoplay    WarningKind = "autoplay_blocked"
	WarningPrintScreen WarningKind = "print_screen"
	WarningDevtools    WarningKind = "devtools"
	WarningLevelLocked WarningKind = "level_locked"
)

type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

type PauseReason string

const (
	ReasonVisibility PauseReason = "visibility"
	ReasonWindowBlur PauseReason = "window_blur"
	ReasonDevtools   PauseReason = "devtools"
)

// WatermarkPosition is the overlay position in percent of the player box.
type WatermarkPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type State struct {
	Status           Status            `json:"status"`
	FailureReason    string            `json:"failure_reason,omitempty"`
	IsPlaying        bool              `json:"is_playing"`
	CurrentTime      float64           `json:"current_time"`
	Duration         float64           `json:"duration"`
	ProgressPercent  float64           `json:"progress_percent"`
	BufferedPercent  float64           `json:"buffered_percent"`
	Volume           float64           `json:"volume"`
	IsMuted          bool              `json:"is_muted"`
	PlaybackRate     float64           `json:"playback_rate"`
	IsFullscreen     bool              `json:"is_fullscreen"`
	IsTheater        bool              `json:"is_theater"`
	IsPiP            bool              `json:"is_pip"`
	ControlsVisible  bool              `json:"controls_visible"`
	TabSwitchWarning bool              `json:"tab_switch_warning"`
	Warning          *Warning          `json:"warning"`
	Watermark        WatermarkPosition `json:"watermark"`
}

type Events struct {
	OnStateChanged   func(State)
	OnWarning        func(Warning)
	OnWarningCleared func(WarningKind)
	OnWatermarkMoved func(WatermarkPosition)
	// OnEnded is invoked after the completion report, once per session.
	// The caller refreshes the level list and prompts the quiz from here.
	OnEnded func()
}
