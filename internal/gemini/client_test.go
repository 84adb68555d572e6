package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/testutil"
)

type call struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	calls []call
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, call{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func candidates() []models.User {
	return []models.User{
		{ID: "me", Name: "Guest"},
		{ID: "n1", Name: "Midnight_Kizz", IsBot: true, Bio: "i write poems at 3am", Personality: models.PersonalitySad},
		{ID: "n2", Name: "X_Vampy_X", IsBot: true, Personality: models.PersonalityYandere},
	}
}

func TestGenerateReply_PicksBotAndPrompts(t *testing.T) {
	fm := &fakeModels{resp: textResponse("the moon ", "is cold...")}
	c := newClient(fm, Config{}, &testutil.ScriptedRand{Ints: []int{0}}, nil)

	reply, err := c.GenerateReply(context.Background(), services.GenerateRequest{
		Candidates:  candidates(),
		Trigger:     "hi all",
		ServerName:  "NightLov",
		ChannelName: "insomnia",
		Country:     "Brazil",
		History: []models.Message{
			{UserID: "me", Content: "hi all"},
			{UserID: "ghost", Content: "boo"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, &services.Reply{SpeakerID: "n1", Text: "the moon is cold..."}, reply)

	require.Len(t, fm.calls, 1)
	require.Equal(t, DefaultModel, fm.calls[0].model)
	prompt := fm.calls[0].contents[0].Parts[0].Text
	require.Contains(t, prompt, `The server name is "NightLov" and the channel is "#insomnia".`)
	require.Contains(t, prompt, "primary language of Brazil")
	require.Contains(t, prompt, "Name: Midnight_Kizz")
	require.Contains(t, prompt, "Bio/Personality: i write poems at 3am")
	require.Contains(t, prompt, "Archetype: sad")
	require.Contains(t, prompt, Instruction(models.PersonalitySad))
	require.Contains(t, prompt, `Respond to the user's message: "hi all"`)
	require.Contains(t, prompt, "Guest: hi all\nsomeone: boo\n")
}

func TestGenerateReply_DefaultsCountry(t *testing.T) {
	fm := &fakeModels{resp: textResponse("sup")}
	c := newClient(fm, Config{}, &testutil.ScriptedRand{}, nil)

	_, err := c.GenerateReply(context.Background(), services.GenerateRequest{Candidates: candidates()})
	require.NoError(t, err)
	require.Contains(t, fm.calls[0].contents[0].Parts[0].Text, "chatting from: USA.")
}

func TestGenerateReply_NoBots(t *testing.T) {
	fm := &fakeModels{}
	c := newClient(fm, Config{}, nil, nil)

	reply, err := c.GenerateReply(context.Background(), services.GenerateRequest{
		Candidates: []models.User{{ID: "me"}},
	})
	require.NoError(t, err)
	require.Nil(t, reply)
	require.Empty(t, fm.calls)
}

func TestGenerateReply_EmptyTextBecomesEllipsis(t *testing.T) {
	c := newClient(&fakeModels{resp: &genai.GenerateContentResponse{}}, Config{}, &testutil.ScriptedRand{Ints: []int{1}}, nil)

	reply, err := c.GenerateReply(context.Background(), services.GenerateRequest{Candidates: candidates()})
	require.NoError(t, err)
	require.Equal(t, "n2", reply.SpeakerID)
	require.Equal(t, "...", reply.Text)
}

func TestGenerateReply_APIErrorFallsBack(t *testing.T) {
	c := newClient(&fakeModels{err: errors.New("429")}, Config{}, &testutil.ScriptedRand{}, nil)

	reply, err := c.GenerateReply(context.Background(), services.GenerateRequest{Candidates: candidates()})
	require.NoError(t, err)
	require.Equal(t, "brb lag... (error)", reply.Text)
	require.Equal(t, "n1", reply.SpeakerID)
}

func TestGenerateReply_CancelledPropagates(t *testing.T) {
	c := newClient(&fakeModels{err: context.Canceled}, Config{}, &testutil.ScriptedRand{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, err := c.GenerateReply(ctx, services.GenerateRequest{Candidates: candidates()})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, reply)
}

func TestSynthesize(t *testing.T) {
	fm := &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("hi"), MIMEType: "audio/pcm"}}}},
	}}}}
	c := newClient(fm, Config{TTSModel: "tts-x"}, nil, nil)

	uri, err := c.Synthesize(context.Background(), "rawr", "Female", models.PersonalityTsundere)
	require.NoError(t, err)
	require.Equal(t, "data:audio/mp3;base64,aGk=", uri)

	cfg := fm.calls[0].config
	require.Equal(t, "tts-x", fm.calls[0].model)
	require.Equal(t, []string{"AUDIO"}, cfg.ResponseModalities)
	require.Equal(t, VoiceKore, cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestSynthesize_FailureIsSilent(t *testing.T) {
	c := newClient(&fakeModels{err: errors.New("down")}, Config{}, nil, nil)
	uri, err := c.Synthesize(context.Background(), "rawr", "boy", models.PersonalityNormal)
	require.NoError(t, err)
	require.Empty(t, uri)

	c = newClient(&fakeModels{resp: textResponse("no audio here")}, Config{}, nil, nil)
	uri, err = c.Synthesize(context.Background(), "rawr", "boy", models.PersonalityNormal)
	require.NoError(t, err)
	require.Empty(t, uri)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil, nil)
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestVoiceFor(t *testing.T) {
	cases := []struct {
		gender string
		p      models.Personality
		want   string
	}{
		{"girl", models.PersonalityTsundere, VoiceKore},
		{"Female", models.PersonalityExtrovert, VoiceKore},
		{"woman", models.PersonalitySad, VoiceZephyr},
		{"female", models.PersonalityYandere, VoiceZephyr},
		{"boy", models.PersonalitySad, VoiceFenrir},
		{"Male", models.PersonalityYandere, VoiceFenrir},
		{"man", models.PersonalityRomantic, VoiceCharon},
		{"", models.PersonalitySad, VoicePuck},
		{"Unknown", models.PersonalityNormal, VoicePuck},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, VoiceFor(tc.gender, tc.p), "%s/%s", tc.gender, tc.p)
	}
}

func TestInstruction_FallsBackToNormal(t *testing.T) {
	require.Equal(t, Instruction(models.PersonalityNormal), Instruction("goth"))
	require.Equal(t, Instruction(models.PersonalityNormal), Instruction(""))
	require.NotEqual(t, Instruction(models.PersonalityNormal), Instruction(models.PersonalityIntrovert))
}

func TestOffline(t *testing.T) {
	o := NewOffline(&testutil.ScriptedRand{Ints: []int{1, 0}})
	reply, err := o.GenerateReply(context.Background(), services.GenerateRequest{Candidates: candidates()})
	require.NoError(t, err)
	require.Equal(t, "n2", reply.SpeakerID)
	require.Equal(t, cannedLines[models.PersonalityYandere][0], reply.Text)

	reply, err = o.GenerateReply(context.Background(), services.GenerateRequest{})
	require.NoError(t, err)
	require.Nil(t, reply)

	uri, err := o.Synthesize(context.Background(), "x", "girl", models.PersonalitySad)
	require.NoError(t, err)
	require.Empty(t, uri)
}
