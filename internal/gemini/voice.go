package gemini

import (
	"strings"

	"github.com/thereayou/rawrchat/internal/models"
)

const (
	VoiceKore   = "Kore"
	VoiceZephyr = "Zephyr"
	VoiceFenrir = "Fenrir"
	VoiceCharon = "Charon"
	VoicePuck   = "Puck"
)

// VoiceFor maps a free-form gender hint and an archetype to a prebuilt voice.
// Feminine hints are checked first since "female" contains "male".
func VoiceFor(gender string, p models.Personality) string {
	g := strings.ToLower(gender)
	switch {
	case containsAny(g, "girl", "female", "woman"):
		if p == models.PersonalityTsundere || p == models.PersonalityExtrovert {
			return VoiceKore
		}
		return VoiceZephyr
	case containsAny(g, "boy", "male", "man"):
		if p == models.PersonalitySad || p == models.PersonalityYandere {
			return VoiceFenrir
		}
		return VoiceCharon
	default:
		return VoicePuck
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
