package domain

// Persisted state keys.
const (
	KeyAudioEnabled    = "audio_enabled"
	KeyTheme           = "theme_preference"
	KeyAgencyOrder     = "agency_order"
	KeyChecked         = "vocabulary_checked"
	KeyBannerDismissed = "install_banner_dismissed"
	KeyProgress        = "vocab_progress"
)

// ProgressKey returns the key holding counter progress for a video, or the
// global progress key when videoID is empty.
func ProgressKey(videoID string) string {
	if videoID == "" {
		return KeyProgress
	}
	return KeyProgress + ":" + videoID
}
