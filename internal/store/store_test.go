package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/rawrchat/internal/models"
)

func testServers() []models.Server {
	return []models.Server{
		{
			ID:   "nightlov",
			Name: "NightLov",
			Kind: models.RoomBot,
			Channels: []models.Channel{
				{ID: "nl1", Name: "insomnia", Type: models.ChannelText},
				{ID: "nl2", Name: "broken-hearts", Type: models.ChannelText},
			},
			Users: []models.User{
				{ID: "n1", Name: "Midnight_Kizz", IsBot: true},
				{ID: "n2", Name: "X_Vampy_X", IsBot: true},
			},
			AllowImages: true,
		},
		{
			ID:       "s3",
			Name:     "Earth Link",
			Kind:     models.RoomHuman,
			Channels: []models.Channel{{ID: "c6", Name: "global-chat", Type: models.ChannelText}},
			Users:    []models.User{{ID: "h1", Name: "Sk8r_Boi", IsBot: false}},
		},
	}
}

func newTestStore(opts ...Option) *Store {
	return New(models.User{ID: "me", Name: "Guest", Country: "USA"}, testServers(), opts...)
}

func TestNew_SelectsFirstServer(t *testing.T) {
	s := newTestStore()
	active := s.Active()
	require.Equal(t, "nightlov", active.Server.ID)
	require.Equal(t, "nl1", active.Channel.ID)
	require.True(t, s.Joined("nightlov"))
	require.False(t, s.Joined("s3"))
}

func TestAppendMessage_PreservesOrder(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 50; i++ {
		require.True(t, s.AppendMessage("nl1", models.Message{ID: fmt.Sprint(i), UserID: "n1"}))
	}

	msgs := s.Messages("nl1")
	require.Len(t, msgs, 50)
	for i, m := range msgs {
		require.Equal(t, fmt.Sprint(i), m.ID)
	}

	last, ok := s.LastMessage("nl1")
	require.True(t, ok)
	require.Equal(t, "49", last.ID)
}

func TestAppendMessage_ConcurrentNeverDrops(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendMessage("nl2", models.Message{ID: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, m := range s.Messages("nl2") {
		seen[m.ID] = true
	}
	require.Len(t, seen, 100)
}

func TestAppendMessage_UnknownChannelIsNoop(t *testing.T) {
	s := newTestStore()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.False(t, s.AppendMessage("gone", models.Message{ID: "x"}))
	require.Empty(t, s.Messages("gone"))
	require.Empty(t, events)
}

func TestIncrementReaction_Monotonic(t *testing.T) {
	s := newTestStore()
	s.AppendMessage("nl1", models.Message{ID: "m1"})

	count, ok, err := s.IncrementReaction("nl1", "m1", "xD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, count)

	count, ok, err = s.IncrementReaction("nl1", "m1", "xD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, count)

	require.Equal(t, 2, s.Messages("nl1")[0].Reactions["xD"])
}

func TestIncrementReaction_MissingMessage(t *testing.T) {
	s := newTestStore()
	count, ok, err := s.IncrementReaction("nl1", "nope", "<3")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, count)

	_, _, err = s.IncrementReaction("nl1", "nope", "")
	require.ErrorIs(t, err, ErrEmptyEmoji)
}

func TestMessages_ReturnsCopies(t *testing.T) {
	s := newTestStore()
	s.AppendMessage("nl1", models.Message{ID: "m1", Reactions: map[string]int{"<3": 1}})

	msgs := s.Messages("nl1")
	msgs[0].Reactions["<3"] = 99
	msgs[0].Content = "mutated"

	again := s.Messages("nl1")
	require.Equal(t, 1, again[0].Reactions["<3"])
	require.Empty(t, again[0].Content)
}

func TestJoinServer_Idempotent(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.JoinServer("s3"))
	require.Equal(t, "c6", s.Active().Channel.ID)

	s.SelectChannel("nightlov", "nl2")
	require.NoError(t, s.JoinServer("s3"))
	require.Equal(t, "nl2", s.Active().Channel.ID, "second join must not move the selection")
	require.Equal(t, []string{"nightlov", "s3"}, s.Snapshot().JoinedIDs)

	require.ErrorIs(t, s.JoinServer("nowhere"), ErrServerNotFound)
}

func TestOpenOrCreateDirectChannel_Idempotent(t *testing.T) {
	s := newTestStore(WithIDSource(func() string { return "fixed" }))

	first, err := s.OpenOrCreateDirectChannel("n1")
	require.NoError(t, err)
	require.Equal(t, "dm-fixed", first.ID)
	require.Equal(t, "Midnight_Kizz", first.Name)
	require.Equal(t, []string{"me", "n1"}, first.Participants)

	s.SelectChannel("nightlov", "nl1")
	second, err := s.OpenOrCreateDirectChannel("n1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, s.Snapshot().DMChannels, 1)

	active := s.Active()
	require.Equal(t, models.HomeServerID, active.Server.ID)
	require.Equal(t, first.ID, active.Channel.ID)
}

func TestOpenOrCreateDirectChannel_Errors(t *testing.T) {
	s := newTestStore()
	_, err := s.OpenOrCreateDirectChannel("me")
	require.ErrorIs(t, err, ErrSelfDirect)

	_, err = s.OpenOrCreateDirectChannel("ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestActive_Fallbacks(t *testing.T) {
	s := newTestStore()

	s.SelectChannel("missing", "missing")
	active := s.Active()
	require.Equal(t, "nightlov", active.Server.ID)
	require.Equal(t, "nl1", active.Channel.ID)

	s.SelectChannel("s3", "missing")
	require.Equal(t, "c6", s.Active().Channel.ID)

	s.SelectChannel(models.HomeServerID, "missing")
	active = s.Active()
	require.True(t, active.Server.IsHome())
	require.Equal(t, "dummy", active.Channel.ID)
	require.Equal(t, models.ChannelDM, active.Channel.Type)
}

func TestResolveUser(t *testing.T) {
	s := newTestStore()
	require.Equal(t, "Guest", s.ResolveUser("me").Name)
	require.Equal(t, "Sk8r_Boi", s.ResolveUser("h1").Name, "global roster lookup")
	require.Equal(t, "Unknown", s.ResolveUser("ghost").Name)
}

func TestAddNPC(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.JoinServer("s3"))

	serverID, err := s.AddNPC(models.User{ID: "npc1", Name: "Rawr_Bot"})
	require.NoError(t, err)
	require.Equal(t, "s3", serverID)

	srv, ok := s.Server("s3")
	require.True(t, ok)
	npc, ok := srv.FindUser("npc1")
	require.True(t, ok)
	require.True(t, npc.IsBot)

	s.SelectChannel(models.HomeServerID, "")
	serverID, err = s.AddNPC(models.User{ID: "npc2", Name: "Home_Bot"})
	require.NoError(t, err)
	require.Equal(t, "nightlov", serverID)
}

func TestUpdateUserAndProfile(t *testing.T) {
	s := newTestStore()
	require.True(t, s.UpdateUser(models.User{ID: "n1", Name: "Renamed", IsBot: true}))
	require.Equal(t, "Renamed", s.ResolveUser("n1").Name)
	require.False(t, s.UpdateUser(models.User{ID: "ghost"}))

	name, color := "Scene_Kid", "#ff00ff"
	self := s.UpdateProfile(ProfilePatch{Name: &name, Color: &color})
	require.Equal(t, "Scene_Kid", self.Name)
	require.Equal(t, "#ff00ff", self.Color)
	require.Equal(t, "USA", self.Country)
}

func TestTyping_CounterAndEvents(t *testing.T) {
	s := newTestStore()
	var typing []bool
	s.Subscribe(func(e Event) {
		if e.Type == EventTyping {
			typing = append(typing, e.Typing)
		}
	})

	s.BeginTyping()
	s.BeginTyping()
	s.EndTyping()
	require.True(t, s.Typing())
	s.EndTyping()
	require.False(t, s.Typing())
	s.EndTyping()

	require.Equal(t, []bool{true, false}, typing)
}

func TestSubscribe_ReceivesAppendAndReaction(t *testing.T) {
	s := newTestStore()
	var got []EventType
	s.Subscribe(func(e Event) { got = append(got, e.Type) })

	s.AppendMessage("nl1", models.Message{ID: "m1"})
	_, _, _ = s.IncrementReaction("nl1", "m1", "lol")
	s.SelectChannel("nightlov", "nl2")

	require.Equal(t, []EventType{EventMessage, EventReaction, EventSelection}, got)
}
