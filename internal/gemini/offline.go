package gemini

import (
	"context"
	"time"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/util"
)

var cannedLines = map[models.Personality][]string{
	models.PersonalitySad:       {"...the night is so empty", "nobody gets me... :'(", "my heart is a broken mp3"},
	models.PersonalityRomantic:  {"omg ur so cute <3 <3", "*hugz* <3", "brb writing ur name in my notebook <3"},
	models.PersonalityTsundere:  {"Baka! >:(", "it's not like i was waiting 4 u or anything", "hmph. whatever."},
	models.PersonalityYandere:   {"who else r u talking to?", "ur mine now <3", "i saw ur away msg. explain."},
	models.PersonalityExtrovert: {"RAWR XD", "OMG LOL!!!1", "hiii evry1 xD xD"},
	models.PersonalityIntrovert: {"u-um... hi", "...ok", "s-sorry"},
	models.PersonalityNormal:    {"lol", "sup", "brb mom needs the phone line"},
}

// Offline answers with canned lines in place of the API, so the rooms keep
// moving when no key is configured.
type Offline struct {
	rand util.Rand
}

var (
	_ services.Generator = (*Offline)(nil)
	_ services.Speaker   = (*Offline)(nil)
)

func NewOffline(rnd util.Rand) *Offline {
	if rnd == nil {
		rnd = util.NewRand(time.Now().UnixNano())
	}
	return &Offline{rand: rnd}
}

func (o *Offline) GenerateReply(_ context.Context, req services.GenerateRequest) (*services.Reply, error) {
	var bots []models.User
	for _, u := range req.Candidates {
		if u.IsBot {
			bots = append(bots, u)
		}
	}
	if len(bots) == 0 {
		return nil, nil
	}
	speaker := util.Pick(o.rand, bots)
	lines := cannedLines[speaker.Personality.OrNormal()]
	return &services.Reply{SpeakerID: speaker.ID, Text: util.Pick(o.rand, lines)}, nil
}

// Synthesize never produces audio.
func (o *Offline) Synthesize(context.Context, string, string, models.Personality) (string, error) {
	return "", nil
}
