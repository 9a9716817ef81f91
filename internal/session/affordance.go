package session

// DisplayMode says which of the mutually exclusive display surfaces is
// active. Exactly one mode is active in every state.
type DisplayMode int

const (
	ModePlaceholder DisplayMode = iota
	ModeVideo
	ModeStill
	ModeResult
)

func (d DisplayMode) String() string {
	switch d {
	case ModeVideo:
		return "video"
	case ModeStill:
		return "still"
	case ModeResult:
		return "result"
	default:
		return "placeholder"
	}
}

// Affordance is everything the shell needs to render the primary control
// and status line. It is derived, never stored: the machine recomputes it
// from state on demand, so the label and the behavior of the button cannot
// drift apart.
type Affordance struct {
	Label   string
	Enabled bool
	Busy    bool
	Mode    DisplayMode
	Status  string
}

const (
	labelCamera = "📸"
	labelTryOn  = "✨"
	labelBusy   = "⏳"
	labelRetake = "🔄"
)

// Affordance computes the derived display for the current state. It is a
// total function over (state, styleSelected, cameraStarted, lastFailure):
// every reachable combination yields a defined label, enablement, display
// mode and status text.
func (m *Machine) Affordance() Affordance {
	say := func(key messageKey) string { return message(m.locale, key) }

	switch m.state {
	case StateNoStyle:
		return Affordance{Label: labelCamera, Enabled: true, Mode: ModePlaceholder, Status: say(msgSelectStyle)}
	case StateReady:
		return Affordance{Label: labelCamera, Enabled: true, Mode: ModePlaceholder, Status: say(msgReady)}
	case StateCameraLive:
		if !m.StyleSelected() {
			return Affordance{Label: labelCamera, Enabled: true, Mode: ModeVideo, Status: say(msgLiveNoStyle)}
		}
		return Affordance{Label: labelCamera, Enabled: true, Mode: ModeVideo, Status: say(msgLive)}
	case StateCaptured:
		status := say(msgCaptured)
		if !m.StyleSelected() {
			status = say(msgCapturedNoStyle)
		}
		if m.failure != "" {
			status = say(msgGenerationFailed) + " " + m.failure
		}
		return Affordance{Label: labelTryOn, Enabled: true, Mode: ModeStill, Status: status}
	case StateGenerating:
		return Affordance{Label: labelBusy, Enabled: false, Busy: true, Mode: ModeStill, Status: say(msgGenerating)}
	case StateResult:
		return Affordance{Label: labelRetake, Enabled: true, Mode: ModeResult, Status: say(msgResult)}
	case StateCameraError:
		return Affordance{Label: labelCamera, Enabled: true, Mode: ModePlaceholder, Status: say(msgCameraDenied)}
	default:
		return Affordance{Label: labelCamera, Enabled: false, Mode: ModePlaceholder, Status: say(msgSelectStyle)}
	}
}
