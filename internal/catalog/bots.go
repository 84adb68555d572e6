package catalog

import (
	"fmt"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/util"
)

var (
	namePrefixes = []string{"xX", "Lil", "Emo", "Scene", "Dark", "Rawr", "Miss", "Mr", "Captain", "Lady", "iAm"}
	nameRoots    = []string{"Killa", "Panda", "Cupcake", "Vampire", "Ghost", "Zombie", "Glitch", "Star", "Sk8r", "Wolf", "Ninja", "Monster", "Kitty", "Dino", "Taco", "Invader", "Rave", "Slash", "Blade"}
	nameSuffixes = []string{"Xx", "_xD", "_666", "_rawr", "_uwu", "_o_O", "_1337", "_luv", "_xoxo"}
	botColors    = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff", "#ffffff", "#aaaaaa", "#ff9900", "#cc00cc"}
)

// NewBot builds a bot user. An empty personality is drawn from r.
func NewBot(r util.Rand, id, name, color, bio, bannerSeed string, personality models.Personality) models.User {
	if personality == "" {
		personality = util.Pick(r, models.Personalities)
	}
	return models.User{
		ID:          id,
		Name:        name,
		Avatar:      util.Pick(r, Avatars),
		Banner:      fmt.Sprintf("https://picsum.photos/seed/%s/600/200", bannerSeed),
		Status:      models.StatusOnline,
		Color:       color,
		IsBot:       true,
		Bio:         bio,
		Font:        "VT323",
		Personality: personality,
		Frame:       RandomFrame(r),
	}
}

// RandomFrame never returns the "none" frame.
func RandomFrame(r util.Rand) string {
	return Frames[1+r.Intn(len(Frames)-1)]
}

// FillerBots generates count scene-named bots with ids gen_<startID+i>.
func FillerBots(r util.Rand, count, startID int) []models.User {
	bots := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		prefix := util.Pick(r, namePrefixes)
		root := util.Pick(r, nameRoots)
		suffix := util.Pick(r, nameSuffixes)
		color := util.Pick(r, botColors)

		bots = append(bots, NewBot(r,
			fmt.Sprintf("gen_%d", startID+i),
			fmt.Sprintf("%s_%s%s", prefix, root, suffix),
			color,
			fmt.Sprintf("Just a %s living in a %s world.", root, prefix),
			fmt.Sprintf("banner_%d", startID+i),
			"",
		))
	}
	return bots
}

// Servers builds a fresh copy of the seed world. Filler bots are spread
// evenly over the servers in seed order.
func Servers(r util.Rand) []models.Server {
	filler := FillerBots(r, FillerBotCount, 100)
	perServer := len(filler) / len(seedServers)

	servers := make([]models.Server, 0, len(seedServers))
	for i, seed := range seedServers {
		users := make([]models.User, 0, len(seed.bots)+perServer)
		for _, b := range seed.bots {
			users = append(users, NewBot(r, b.id, b.name, b.color, b.bio, b.banner, b.personality))
		}
		users = append(users, filler[i*perServer:(i+1)*perServer]...)

		channels := make([]models.Channel, len(seed.channels))
		copy(channels, seed.channels)

		servers = append(servers, models.Server{
			ID:          seed.id,
			Name:        seed.name,
			Icon:        seed.icon,
			Channels:    channels,
			Users:       users,
			AllowImages: true,
			Kind:        seed.kind,
		})
	}
	return servers
}
