// Package catalog holds the seed world every new session starts from:
// servers, their channels and bot rosters, plus the small lookup tables
// (avatars, frames, reactions) the chat logic draws from.
package catalog

import (
	"github.com/thereayou/rawrchat/internal/models"
)

const (
	DefaultServerID  = "nightlov"
	DefaultChannelID = "nl1"
	GuestUserID      = "me"
	FillerBotCount   = 50
)

var Avatars = []string{
	"https://i.pinimg.com/736x/5b/3f/55/5b3f55eb51bfede55fbd71f0baee9e28.jpg",
	"https://i.pinimg.com/736x/2c/73/0a/2c730a5d03737217f7c4da105c926343.jpg",
	"https://i.pinimg.com/736x/4d/87/0e/4d870ec5daf688a041e996860c47e646.jpg",
	"https://i.pinimg.com/736x/27/c8/57/27c85722f6425f06b4874f9a8ad6c03d.jpg",
	"https://i.pinimg.com/736x/4f/a5/97/4fa5976817f38b6be6c27d2dbeebeae1.jpg",
	"https://i.pinimg.com/736x/9e/e7/74/9ee77436080f154bb054e41941d88a37.jpg",
	"https://i.pinimg.com/736x/46/3a/8f/463a8fa1281d0042b7ea098c6f684e74.jpg",
	"https://i.pinimg.com/736x/8f/b2/6e/8fb26ee8ebd7b1cf70b6f8365e8d2afd.jpg",
}

// Frames lists avatar frame ids; the first entry means no frame.
var Frames = []string{"none", "leopard", "bow", "cat", "angel", "emo", "star", "crown"}

var Reactions = []string{"<3", "xD", "o_O", ">:(", "lol", ":3", "rawr"}

var Fonts = []string{"vt323", "starborn", "pixel", "comic", "creepy", "arial"}

// Guest is the profile a login form starts from.
func Guest() models.User {
	return models.User{
		ID:          GuestUserID,
		Name:        "Guest",
		Avatar:      Avatars[0],
		Banner:      "https://picsum.photos/seed/banner/600/200",
		Status:      models.StatusOnline,
		Color:       "#ffffff",
		Bio:         "New to the scene. xD",
		Font:        "VT323",
		Country:     "USA",
		Frame:       "none",
		Personality: models.PersonalityNormal,
	}
}

// Welcome is the message nl1 starts with.
func Welcome() models.Message {
	return models.Message{
		ID:        "welcome",
		UserID:    "u1",
		Content:   "Welcome to RawrChat... <3 Log in and set up ur profile!",
		Timestamp: "10:00",
		Reactions: map[string]int{"<3": 2, "xD": 5},
	}
}

type seedServer struct {
	id, name, icon string
	kind           models.RoomKind
	channels       []models.Channel
	bots           []seedBot
}

type seedBot struct {
	id, name, color, bio, banner string
	personality                  models.Personality
}

func text(id, name, description string) models.Channel {
	return models.Channel{ID: id, Name: name, Type: models.ChannelText, Description: description}
}

var seedServers = []seedServer{
	{
		id: "nightlov", name: "NightLov ☾", kind: models.RoomBot,
		icon: "https://i.pinimg.com/736x/7d/5a/27/7d5a278913cb9045ba772719624597d3.jpg",
		channels: []models.Channel{
			text("nl1", "insomnia", "For those who never sleep..."),
			text("nl2", "broken-hearts", "Venting space </3"),
			text("nl3", "poetry", "Dark rhymes only."),
		},
		bots: []seedBot{
			{"n1", "Midnight_Kizz", "#aa00aa", "Loves the moon and black eyeliner.", "moon", models.PersonalitySad},
			{"n2", "X_Vampy_X", "#ff0000", "Vampire aesthetics only.", "blood", models.PersonalityYandere},
			{"n3", "Ghost_In_The_Machine", "#ccffcc", "I am not real.", "ghost", models.PersonalityIntrovert},
		},
	},
	{
		id: "weblov", name: "WebLov <3", kind: models.RoomBot,
		icon: "https://i.pinimg.com/236x/52/64/00/526400627546761427181283d69c7659.jpg",
		channels: []models.Channel{
			text("wl1", "dating-profiles", "Post ur age/loc/pic xD"),
			text("wl2", "main-chat", "Couples and drama here."),
			text("wl3", "breakups", "Who broke up with who??"),
		},
		bots: []seedBot{
			{"w1", "L0ver_B0y", "#00ccff", "Dating Tsundere_Queen. I love her even if she is mean.", "love", models.PersonalityRomantic},
			{"w2", "Tsundere_Queen", "#ff66aa", "Dating L0ver_B0y. He is annoying (but i love him).", "tsun", models.PersonalityTsundere},
			{"w3", "Heart_Breaker", "#660000", "Single. I want to steal L0ver_B0y. I hate happy couples.", "broken", models.PersonalityYandere},
			{"w4", "Emo_Loner", "#555555", "Forever alone... just watching the drama.", "loner", models.PersonalitySad},
		},
	},
	{
		id: "scenespace", name: "Scene Space", kind: models.RoomCommunity,
		icon: "https://i.pinimg.com/736x/44/2c/3d/442c3d0b26391d471550c6046aa33439.jpg",
		channels: []models.Channel{
			text("ss1", "General Bulletin", "Public Wall Posts"),
			text("ss2", "Rate My Fit", "PC4PC (Pic for Pic)"),
			text("ss3", "Music Codes", "HTML codes for ur profile"),
		},
		bots: []seedBot{
			{"ss1", "Tom_M", "#ffffff", "Everyone's first friend.", "myspace", models.PersonalityExtrovert},
			{"ss2", "Scene_King", "#00ff00", "I run this place.", "crown", models.PersonalityExtrovert},
			{"ss3", "Glitch_Grl", "#ff00ff", "Coding queen.", "code", models.PersonalityIntrovert},
			{"ss4", "RaWr_Zomb1e", "#aaaaaa", "Brains... and cupcakes.", "zombie", models.PersonalityNormal},
		},
	},
	{
		id: "s1", name: "Rawr Corner xD", kind: models.RoomBot,
		icon: "https://picsum.photos/seed/rawr/50/50",
		channels: []models.Channel{
			text("c1", "general", "Chat about anything! Rawr!"),
			text("c2", "music-n-bands", "MCR, Paramore, FOB <3"),
			text("c3", "selfiez", "Post ur hair pics!!"),
		},
		bots: []seedBot{
			{"u1", "xX_DarkAngel_Xx", "#ff0000", "You are a moody emo kid. You love MCR.", "dark", models.PersonalitySad},
			{"u2", "Neon_Glitch", "#00ff00", "You are a scene kid. You love raves and Invader Zim.", "neon", models.PersonalityExtrovert},
			{"u3", "SadBoy2005", "#6666ff", "You are quiet and mysterious.", "rain", models.PersonalityIntrovert},
		},
	},
	{
		id: "s3", name: "Earth Link [HUMANS]", kind: models.RoomHuman,
		icon: "https://picsum.photos/seed/earth/50/50",
		channels: []models.Channel{
			text("c6", "global-chat", "Real humans only!! No bots allowed."),
			text("c7", "dating", "Find ur soulmate <3"),
		},
		bots: []seedBot{
			{"h1", "Sk8r_Boi", "#ff9900", "You are a chill skater guy. You act like a real person.", "skate", models.PersonalityExtrovert},
			{"h2", "EmoPrincess", "#ff66cc", "You are looking for friends. You act like a real person.", "pink", models.PersonalityExtrovert},
			{"h3", "TrollFace", "#ffffff", "You like to prank people slightly. You act like a real person.", "troll", models.PersonalityExtrovert},
			{"h4", "MusicLover99", "#00ccff", "You share mp3 links. You act like a real person.", "music", models.PersonalityNormal},
		},
	},
}
