// Package session implements the try-on session state machine. The machine
// is the single owner of all session-mutable state: shells (the kiosk, a
// browser frontend) ask it what to do via PressPrimary, perform the I/O
// themselves, and feed completions back in. Nothing here touches a camera,
// the network, or a display.
package session

// State enumerates the session's progress through the try-on flow.
type State int

const (
	StateNoStyle State = iota
	StateReady
	StateCameraLive
	StateCaptured
	StateGenerating
	StateResult
	StateCameraError
)

func (s State) String() string {
	switch s {
	case StateNoStyle:
		return "NO_STYLE_SELECTED"
	case StateReady:
		return "READY_TO_START_CAMERA"
	case StateCameraLive:
		return "CAMERA_LIVE"
	case StateCaptured:
		return "PHOTO_CAPTURED"
	case StateGenerating:
		return "GENERATING"
	case StateResult:
		return "RESULT_READY"
	case StateCameraError:
		return "CAMERA_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Action is what the shell should do in response to a primary-button press.
type Action int

const (
	ActionNone Action = iota
	ActionOpenStylePicker
	ActionStartCamera
	ActionCapture
	ActionGenerate
	ActionRetake
)

func (a Action) String() string {
	switch a {
	case ActionOpenStylePicker:
		return "open_style_picker"
	case ActionStartCamera:
		return "start_camera"
	case ActionCapture:
		return "capture"
	case ActionGenerate:
		return "generate"
	case ActionRetake:
		return "retake"
	default:
		return "none"
	}
}

// RetakePolicy decides what survives a retake. The upstream drafts
// disagreed on whether the chosen style should outlive a recapture, so it
// is a policy knob rather than a hardcoded answer.
type RetakePolicy struct {
	KeepStyle bool
}

// Config configures a new session machine.
type Config struct {
	Policy RetakePolicy
	Locale string
}

// Machine holds one page-load's worth of session state.
type Machine struct {
	state         State
	cameraStarted bool
	captured      []byte
	result        []byte
	styleName     string
	stylePrompt   string
	failure       string
	policy        RetakePolicy
	locale        string
}

// New constructs a machine in the initial no-style state.
func New(cfg Config) *Machine {
	return &Machine{
		state:  StateNoStyle,
		policy: cfg.Policy,
		locale: cfg.Locale,
	}
}

// State reports the current state.
func (m *Machine) State() State { return m.state }

// StyleSelected reports whether a style pick is in effect.
func (m *Machine) StyleSelected() bool { return m.stylePrompt != "" }

// StyleName returns the display name of the selected style, if any.
func (m *Machine) StyleName() string { return m.styleName }

// StylePrompt returns the generation prompt of the selected style, if any.
func (m *Machine) StylePrompt() string { return m.stylePrompt }

// CameraStarted reports whether the camera has been acquired this session.
func (m *Machine) CameraStarted() bool { return m.cameraStarted }

// CapturedImage returns the frozen selfie bytes, nil before capture.
func (m *Machine) CapturedImage() []byte { return m.captured }

// ResultImage returns the generated image bytes, nil before a result.
func (m *Machine) ResultImage() []byte { return m.result }

// PressPrimary resolves a primary-button press into the action the shell
// must perform. It never performs I/O and mutates nothing: completions
// come back through the feedback methods below.
func (m *Machine) PressPrimary() Action {
	switch m.state {
	case StateNoStyle:
		return ActionOpenStylePicker
	case StateReady:
		return ActionStartCamera
	case StateCameraLive:
		return ActionCapture
	case StateCaptured:
		if !m.StyleSelected() {
			return ActionOpenStylePicker
		}
		return ActionGenerate
	case StateGenerating:
		// The control is disabled while a generation is in flight; a press
		// that slips through is a no-op.
		return ActionNone
	case StateResult:
		return ActionRetake
	case StateCameraError:
		return ActionStartCamera
	default:
		return ActionNone
	}
}

// SelectStyle records an explicit style pick. Ignored while a generation
// is in flight.
func (m *Machine) SelectStyle(name, prompt string) {
	if m.state == StateGenerating || prompt == "" {
		return
	}
	m.styleName = name
	m.stylePrompt = prompt
	if m.state == StateNoStyle {
		m.state = StateReady
	}
}

// CameraAcquired is the shell's report that the camera permission was
// granted and the stream is playing.
func (m *Machine) CameraAcquired() {
	if m.state != StateReady && m.state != StateCameraError && m.state != StateNoStyle {
		return
	}
	m.cameraStarted = true
	m.failure = ""
	m.state = StateCameraLive
}

// CameraDenied is the shell's report that camera acquisition failed. The
// session stays in the error state until the user explicitly retries.
func (m *Machine) CameraDenied() {
	m.cameraStarted = false
	m.state = StateCameraError
}

// FrameCaptured freezes the session on the provided still image.
func (m *Machine) FrameCaptured(jpeg []byte) {
	if m.state != StateCameraLive || len(jpeg) == 0 {
		return
	}
	m.captured = jpeg
	m.failure = ""
	m.state = StateCaptured
}

// BeginGeneration guards and enters the generating state. It reports false
// when the preconditions (captured image and selected prompt) do not hold,
// leaving the state untouched.
func (m *Machine) BeginGeneration() bool {
	if m.state != StateCaptured || len(m.captured) == 0 || !m.StyleSelected() {
		return false
	}
	m.failure = ""
	m.state = StateGenerating
	return true
}

// GenerationSucceeded installs the generated image and unlocks the retake
// affordance.
func (m *Machine) GenerationSucceeded(image []byte) {
	if m.state != StateGenerating {
		return
	}
	m.result = image
	m.failure = ""
	m.state = StateResult
}

// GenerationFailed returns the session to the captured state with the
// original selfie intact so the user can retry without recapturing.
func (m *Machine) GenerationFailed(message string) {
	if m.state != StateGenerating {
		return
	}
	m.failure = message
	m.state = StateCaptured
}

// Retake clears the captured image and any result, then returns to the
// live camera (or to the start of the flow when the camera must restart).
// The selected style survives or resets per the configured policy.
func (m *Machine) Retake() {
	if m.state != StateResult {
		return
	}
	m.captured = nil
	m.result = nil
	m.failure = ""
	if !m.policy.KeepStyle {
		m.styleName = ""
		m.stylePrompt = ""
	}
	switch {
	case m.cameraStarted:
		m.state = StateCameraLive
	case m.StyleSelected():
		m.state = StateReady
	default:
		m.state = StateNoStyle
	}
}
