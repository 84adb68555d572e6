package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thereayou/rawrchat/internal/clock"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/store"
	"github.com/thereayou/rawrchat/internal/testutil"
)

var epoch = time.Date(2007, 6, 1, 3, 14, 0, 0, time.UTC)

func bot(id string) models.User {
	return models.User{ID: id, Name: "bot_" + id, IsBot: true, Gender: "boy", Personality: models.PersonalityYandere}
}

func servers() []models.Server {
	return []models.Server{
		{
			ID:   "nightlov",
			Name: "NightLov",
			Kind: models.RoomBot,
			Channels: []models.Channel{
				{ID: "nl1", Name: "insomnia", Type: models.ChannelText},
				{ID: "nl2", Name: "poetry", Type: models.ChannelText},
			},
			Users: []models.User{bot("n1"), {ID: "lurker", Name: "xX_lurker_Xx"}},
		},
		{
			ID:          "s3",
			Name:        "Earth Link",
			Kind:        models.RoomHuman,
			AllowImages: true,
			Channels:    []models.Channel{{ID: "c6", Name: "global-chat", Type: models.ChannelText}},
			Users:       []models.User{bot("h1")},
		},
	}
}

type fixture struct {
	store   *store.Store
	gen     *testutil.FakeGenerator
	speaker *testutil.FakeSpeaker
	rand    *testutil.ScriptedRand
	clock   *clock.Fake
	sender  *Sender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   store.New(models.User{ID: "me", Name: "Guest", Country: "Japan"}, servers()),
		gen:     &testutil.FakeGenerator{},
		speaker: &testutil.FakeSpeaker{URI: "data:audio/mp3;base64,BBBB"},
		rand:    &testutil.ScriptedRand{},
		clock:   clock.NewFake(epoch),
	}
	f.sender = NewSender(f.store, Deps{
		Generator: f.gen,
		Speaker:   f.speaker,
		Clock:     f.clock,
		Rand:      f.rand,
	}, DefaultConfig())
	t.Cleanup(f.sender.Close)
	return f
}

func TestSend_RejectsEmptyMessage(t *testing.T) {
	f := newFixture(t)
	_, err := f.sender.Send("   ", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Empty(t, f.store.Messages("nl1"))
	require.False(t, f.store.Typing())
}

func TestSend_RejectsImageWhereDisabled(t *testing.T) {
	f := newFixture(t)
	_, err := f.sender.Send("", "data:image/png;base64,AAAA")
	require.ErrorIs(t, err, ErrImagesDisabled)

	require.NoError(t, f.store.JoinServer("s3"))
	msg, err := f.sender.Send("", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AAAA", msg.Image)
}

func TestSend_BotRoomReplyAfterDelay(t *testing.T) {
	f := newFixture(t)

	msg, err := f.sender.Send("who else cant sleep", "")
	require.NoError(t, err)
	require.Equal(t, "me", msg.UserID)
	require.Equal(t, "03:14", msg.Timestamp)
	require.True(t, f.store.Typing())
	require.Len(t, f.store.Messages("nl1"), 1)

	f.clock.BlockUntil(1)
	f.clock.Advance(1400 * time.Millisecond)
	require.Len(t, f.store.Messages("nl1"), 1)
	f.clock.Advance(100 * time.Millisecond)
	f.sender.Wait()

	msgs := f.store.Messages("nl1")
	require.Len(t, msgs, 2)
	require.Equal(t, "n1", msgs[1].UserID)
	require.Equal(t, "rawr xD", msgs[1].Content)
	require.Empty(t, msgs[1].Audio)
	require.False(t, f.store.Typing())

	req := f.gen.Last()
	require.Equal(t, "who else cant sleep", req.Trigger)
	require.Equal(t, "NightLov", req.ServerName)
	require.Equal(t, "insomnia", req.ChannelName)
	require.Equal(t, "Japan", req.Country)
	require.Len(t, req.Candidates, 2, "the whole roster is offered")
	require.Empty(t, req.History)
}

func TestSend_HumanRoomWaitsLongerAndHintsPrompt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.JoinServer("s3"))

	_, err := f.sender.Send("asl?", "")
	require.NoError(t, err)

	f.clock.BlockUntil(1)
	f.clock.Advance(2 * time.Second)
	require.Len(t, f.store.Messages("c6"), 1)
	f.clock.Advance(time.Second)
	f.sender.Wait()

	require.Len(t, f.store.Messages("c6"), 2)
	require.Equal(t, "Earth Link (Act like a real human internet user)", f.gen.Last().ServerName)
}

func TestSend_RoomReplyMayCarrySpeech(t *testing.T) {
	f := newFixture(t)
	f.rand.Floats = []float64{0.1}

	_, err := f.sender.Send("sing for me", "")
	require.NoError(t, err)
	f.clock.BlockUntil(1)
	f.clock.Advance(2 * time.Second)
	f.sender.Wait()

	reply := f.store.Messages("nl1")[1]
	require.Equal(t, "data:audio/mp3;base64,BBBB", reply.Audio)
	require.Equal(t, 1, f.speaker.Count())
	require.Equal(t, "boy", f.speaker.Calls[0].Gender)
}

func TestSend_DirectReplyFromBotPeer(t *testing.T) {
	f := newFixture(t)
	f.rand.Floats = []float64{0.0}
	dm, err := f.store.OpenOrCreateDirectChannel("n1")
	require.NoError(t, err)

	_, err = f.sender.Send("hey", "")
	require.NoError(t, err)
	f.clock.BlockUntil(1)
	f.clock.Advance(1500 * time.Millisecond)
	f.sender.Wait()

	msgs := f.store.Messages(dm.ID)
	require.Len(t, msgs, 2)
	require.Equal(t, "n1", msgs[1].UserID)
	require.Empty(t, msgs[1].Audio, "direct replies never speak")
	require.Zero(t, f.speaker.Count())

	req := f.gen.Last()
	require.Equal(t, "Direct Messages", req.ServerName)
	require.Equal(t, "Private Chat", req.ChannelName)
	require.Len(t, req.Candidates, 1)
	require.Equal(t, "n1", req.Candidates[0].ID)
}

func TestSend_DirectToNonBotGetsNoReply(t *testing.T) {
	f := newFixture(t)
	dm, err := f.store.OpenOrCreateDirectChannel("lurker")
	require.NoError(t, err)

	_, err = f.sender.Send("u there?", "")
	require.NoError(t, err)
	f.sender.Wait()

	require.Len(t, f.store.Messages(dm.ID), 1)
	require.Zero(t, f.gen.Calls())
	require.False(t, f.store.Typing())
}

func TestSend_GenerationFailureClearsTyping(t *testing.T) {
	f := newFixture(t)
	f.gen.Err = errors.New("boom")

	_, err := f.sender.Send("hello?", "")
	require.NoError(t, err)
	f.sender.Wait()

	require.Len(t, f.store.Messages("nl1"), 1)
	require.False(t, f.store.Typing())
	require.Zero(t, f.clock.Waiters())
}

func TestSend_ReplyLandsInOriginatingChannel(t *testing.T) {
	f := newFixture(t)

	_, err := f.sender.Send("first", "")
	require.NoError(t, err)
	f.clock.BlockUntil(1)

	f.store.SelectChannel("nightlov", "nl2")
	f.clock.Advance(2 * time.Second)
	f.sender.Wait()

	require.Len(t, f.store.Messages("nl1"), 2)
	require.Empty(t, f.store.Messages("nl2"))
}

func TestSend_PlaceholderChannelRejected(t *testing.T) {
	f := newFixture(t)
	f.store.SelectChannel(models.HomeServerID, "")

	_, err := f.sender.Send("anyone?", "")
	require.ErrorIs(t, err, ErrNoChannel)
	require.False(t, f.store.Typing())
}

func TestClose_AbandonsPendingReply(t *testing.T) {
	f := newFixture(t)

	_, err := f.sender.Send("bye", "")
	require.NoError(t, err)
	f.clock.BlockUntil(1)

	f.sender.Close()
	require.Len(t, f.store.Messages("nl1"), 1)
	require.False(t, f.store.Typing())
}
