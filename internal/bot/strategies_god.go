package bot

// GodBot is the hard tier: the smart scorer with deep memory and the
// sharpest tuning profile.
type GodBot struct {
	SmartBot
}
