package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"imob-followup/config"
	"imob-followup/internal/models"
)

type stubGenerator struct {
	text   string
	err    error
	system string
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	s.system, s.prompt = system, prompt
	return s.text, s.err
}

func draftContact() models.Contact {
	return models.Contact{
		ID:                    "c1",
		Name:                  "João",
		Phone:                 "5511999998888",
		Type:                  models.ContactTypeClient,
		LastContactDate:       "2024-05-01",
		Notes:                 "Procura apartamento perto do metrô",
		FollowUpFrequencyDays: 15,
		Property:              &models.PropertyInfo{Kind: "Apartamento", Bedrooms: 2, Address: "Rua Augusta, 100"},
	}
}

func TestDraft_NoSettingsUsesPlainFallback(t *testing.T) {
	gen := &stubGenerator{text: "não deveria ser usado"}
	d := NewDraftingService(gen).Draft(context.Background(), draftContact(), models.Unconfigured(), false)

	require.Equal(t, "Olá João, gostaria de retomar nosso contato. Podemos falar?", d.Text)
	require.False(t, d.Generated)
	require.Empty(t, gen.prompt, "generator is not called without settings")
}

func TestDraft_GeneratedTextIsTrimmed(t *testing.T) {
	gen := &stubGenerator{text: "  Oi João, tudo bem? Surgiu uma opção ótima perto do metrô.\n"}
	d := NewDraftingService(gen).Draft(context.Background(), draftContact(), models.Configured(testSettings()), false)

	require.True(t, d.Generated)
	require.Equal(t, "Oi João, tudo bem? Surgiu uma opção ótima perto do metrô.", d.Text)
	require.Contains(t, gen.system, "Carla Corretora")
	require.Contains(t, gen.system, "amigável")
	require.Contains(t, gen.prompt, "João")
	require.Contains(t, gen.prompt, "Procura apartamento perto do metrô")
	require.Contains(t, gen.prompt, "Rua Augusta, 100")
	require.Contains(t, gen.prompt, "acompanhamento")
}

func TestDraft_NudgePrompt(t *testing.T) {
	gen := &stubGenerator{text: "Oi João, conseguiu ver minha mensagem?"}
	NewDraftingService(gen).Draft(context.Background(), draftContact(), models.Configured(testSettings()), true)

	require.Contains(t, gen.prompt, "não respondeu")
}

func TestDraft_FailuresFallBackToTemplate(t *testing.T) {
	cases := map[string]*stubGenerator{
		"error": {err: errors.New("boom")},
		"empty": {text: "   "},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			d := NewDraftingService(gen).Draft(context.Background(), draftContact(), models.Configured(testSettings()), false)
			require.False(t, d.Generated)
			require.Equal(t, "Olá João, aqui é Carla Corretora. Gostaria de retomar nosso contato. Podemos falar?", d.Text)
		})
	}
}

func TestDraft_NoGeneratorFallsBack(t *testing.T) {
	svc := NewDraftingServiceFromConfig(config.OpenAIConfig{})
	d := svc.Draft(context.Background(), draftContact(), models.Configured(testSettings()), false)

	require.False(t, d.Generated)
	require.Contains(t, d.Text, "Carla Corretora")
}

func newOpenAIStub(t *testing.T, status int, content string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "gpt-4o-mini", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"server error","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1718000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestOpenAIGenerator_Completion(t *testing.T) {
	srv, calls := newOpenAIStub(t, http.StatusOK, " Olá João! Tudo certo por aí? ")
	svc := NewDraftingServiceFromConfig(config.OpenAIConfig{
		APIKey: "sk-test", Model: "gpt-4o-mini", Temperature: 0.7, BaseURL: srv.URL + "/v1/",
	})

	d := svc.Draft(context.Background(), draftContact(), models.Configured(testSettings()), false)
	require.True(t, d.Generated)
	require.Equal(t, "Olá João! Tudo certo por aí?", d.Text)
	require.Equal(t, 1, *calls)
}

func TestOpenAIGenerator_ServerErrorIsNotRetried(t *testing.T) {
	srv, calls := newOpenAIStub(t, http.StatusInternalServerError, "")
	svc := NewDraftingServiceFromConfig(config.OpenAIConfig{
		APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1/",
	})

	d := svc.Draft(context.Background(), draftContact(), models.Configured(testSettings()), false)
	require.False(t, d.Generated)
	require.Contains(t, d.Text, "aqui é Carla Corretora")
	require.Equal(t, 1, *calls)
}
