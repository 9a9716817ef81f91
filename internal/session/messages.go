package session

import "golang.org/x/text/language"

type messageKey int

const (
	msgSelectStyle messageKey = iota
	msgReady
	msgLive
	msgLiveNoStyle
	msgCaptured
	msgCapturedNoStyle
	msgGenerating
	msgGenerationFailed
	msgResult
	msgCameraDenied
	msgNotReady
)

var supported = []language.Tag{
	language.English,
	language.Indonesian,
}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[messageKey]string{
	language.English: {
		msgSelectStyle:      "Please select a style from the Inspiration gallery first!",
		msgReady:            "Style selected! Tap the camera button to start.",
		msgLive:             "Camera is live. Tap the button to capture your selfie.",
		msgLiveNoStyle:      "Camera ready for a new look! Select a style and capture!",
		msgCaptured:         "Selfie captured! Tap the sparkle button to try on the hairstyle.",
		msgCapturedNoStyle:  "Selfie captured! Pick a style to try it on.",
		msgGenerating:       "Applying your selected style... This may take a moment.",
		msgGenerationFailed: "Generation failed.",
		msgResult:           "Done! Your new look is ready. Tap the button to take a new selfie.",
		msgCameraDenied:     "Camera access was denied. Check permissions and tap to retry.",
		msgNotReady:         "Camera is still warming up, try again in a moment.",
	},
	language.Indonesian: {
		msgSelectStyle:      "Silakan pilih gaya dari galeri Inspirasi dulu!",
		msgReady:            "Gaya dipilih! Ketuk tombol kamera untuk mulai.",
		msgLive:             "Kamera aktif. Ketuk tombol untuk mengambil swafoto.",
		msgLiveNoStyle:      "Kamera siap untuk tampilan baru! Pilih gaya lalu ambil foto!",
		msgCaptured:         "Swafoto diambil! Ketuk tombol kilau untuk mencoba gaya rambut.",
		msgCapturedNoStyle:  "Swafoto diambil! Pilih gaya untuk mencobanya.",
		msgGenerating:       "Menerapkan gaya pilihanmu... Mohon tunggu sebentar.",
		msgGenerationFailed: "Pembuatan gambar gagal.",
		msgResult:           "Selesai! Tampilan barumu sudah siap. Ketuk tombol untuk swafoto baru.",
		msgCameraDenied:     "Akses kamera ditolak. Periksa izin lalu ketuk untuk mencoba lagi.",
		msgNotReady:         "Kamera masih menyala, coba lagi sebentar lagi.",
	},
}

// message resolves a status string for a locale, falling back to English
// for anything the matcher cannot place.
func message(locale string, key messageKey) string {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, index, _ := matcher.Match(parsed)
			tag = supported[index]
		}
	}
	if text, ok := messages[tag][key]; ok {
		return text
	}
	return messages[language.English][key]
}

// NotReadyStatus is the status line shown when a capture is attempted
// before the stream has produced a frame. The state machine itself does
// not change state for this condition, so the shell asks for the text
// directly.
func (m *Machine) NotReadyStatus() string {
	return message(m.locale, msgNotReady)
}
