package content

// Voice is a prebuilt narration voice.
type Voice struct {
	Name  string
	Label string
}

// Voices lists the selectable narration voices.
var Voices = []Voice{
	{Name: "Puck", Label: "Playful"},
	{Name: "Kore", Label: "Calm"},
	{Name: "Fenrir", Label: "Deep"},
	{Name: "Zephyr", Label: "Gentle"},
}

// DefaultVoice picks a calmer voice for older students.
func DefaultVoice(highSchool bool) string {
	if highSchool {
		return "Kore"
	}
	return "Puck"
}

// VoiceIndex returns the position of name in Voices, or 0 if unknown.
func VoiceIndex(name string) int {
	for i, v := range Voices {
		if v.Name == name {
			return i
		}
	}
	return 0
}
