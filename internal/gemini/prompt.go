package gemini

import (
	"fmt"
	"strings"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
)

const (
	defaultCountry = "USA"
	historyLines   = 8
)

var personalityInstructions = map[models.Personality]string{
	models.PersonalitySad:       `You are extremely depressed, emo, and poetic about your sadness. Use "..." and talk about darkness.`,
	models.PersonalityRomantic:  `You are flirtatious, lovey-dovey, and use lots of hearts <3. You are looking for a soulmate.`,
	models.PersonalityTsundere:  `You are aggressive and mean, but secretly care. Use "Baka!", "It's not like I like you", and act annoyed.`,
	models.PersonalityYandere:   `You are obsessed, possessive, and slightly scary/violent about your love. You are very intense.`,
	models.PersonalityExtrovert: `You are hyper, energetic, use ALL CAPS sometimes, and lots of "xD" and "Rawr!". Very Scene Kid energy.`,
	models.PersonalityIntrovert: `You are shy, use short sentences, stutter (u-um...), and are hesitant to speak.`,
	models.PersonalityNormal:    `You are a standard 2007 internet user. Cool and casual.`,
}

// Instruction returns the roleplay instruction for p, falling back to the
// normal archetype.
func Instruction(p models.Personality) string {
	if s, ok := personalityInstructions[p]; ok {
		return s
	}
	return personalityInstructions[models.PersonalityNormal]
}

func buildPrompt(req services.GenerateRequest, speaker models.User) string {
	country := req.Country
	if country == "" {
		country = defaultCountry
	}
	archetype := speaker.Personality.OrNormal()

	var b strings.Builder
	b.WriteString("You are roleplaying in a chatroom in the year 2007.\n")
	fmt.Fprintf(&b, "The server name is %q and the channel is \"#%s\".\n\n", req.ServerName, req.ChannelName)
	fmt.Fprintf(&b, "The user is chatting from: %s.\n", country)
	fmt.Fprintf(&b, "IMPORTANT: You MUST reply in the primary language of %s.\n\n", country)

	b.WriteString("Your persona:\n")
	fmt.Fprintf(&b, "Name: %s\n", speaker.Name)
	fmt.Fprintf(&b, "Bio/Personality: %s\n", speaker.Bio)
	fmt.Fprintf(&b, "Archetype: %s\n\n", archetype)

	if recent := recentLines(req); recent != "" {
		b.WriteString("Recent chat:\n")
		b.WriteString(recent)
		b.WriteString("\n")
	}

	b.WriteString("INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. Respond to the user's message: %q.\n", req.Trigger)
	b.WriteString("2. Be concise (under 30 words).\n")
	b.WriteString("3. Stay in character (It is 2007).\n")
	fmt.Fprintf(&b, "4. ACT ACCORDING TO YOUR ARCHETYPE: %s\n", Instruction(archetype))
	b.WriteString("5. Do not be helpful like an AI assistant. Be a chatroom user.\n\n")

	b.WriteString("STYLE GUIDE:\n")
	fmt.Fprintf(&b, "Use 2007 internet slang relevant to the language of %s (e.g., lol, rofl, xD, rawr, <3, pwned, ftw).\n", country)
	return b.String()
}

// recentLines renders the tail of the history as "name: text" lines. Authors
// outside the candidate list show up as "someone".
func recentLines(req services.GenerateRequest) string {
	if len(req.History) == 0 {
		return ""
	}
	names := make(map[string]string, len(req.Candidates))
	for _, u := range req.Candidates {
		names[u.ID] = u.Name
	}

	start := 0
	if len(req.History) > historyLines {
		start = len(req.History) - historyLines
	}

	var b strings.Builder
	for _, m := range req.History[start:] {
		if m.Content == "" {
			continue
		}
		name, ok := names[m.UserID]
		if !ok {
			name = "someone"
		}
		fmt.Fprintf(&b, "%s: %s\n", name, m.Content)
	}
	return b.String()
}
