package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"imob-followup/config"
	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

// TextGenerator produces text from a system persona and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// OpenAIGenerator wraps the OpenAI client. Requests are sent once, without
// the client's built-in retries.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewOpenAIGenerator returns nil when no API key is configured; the drafting
// service then always uses the fallback template.
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	if cfg.APIKey == "" {
		return nil
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	c := openai.NewClient(opts...)
	return &OpenAIGenerator{client: &c, model: cfg.Model, temperature: cfg.Temperature}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: nenhuma resposta retornada")
	}
	return resp.Choices[0].Message.Content, nil
}

type Draft struct {
	Text      string `json:"text"`
	Generated bool   `json:"generated"`
}

type DraftingService struct {
	generator TextGenerator
}

func NewDraftingService(generator TextGenerator) *DraftingService {
	return &DraftingService{generator: generator}
}

// NewDraftingServiceFromConfig wires the OpenAI generator when a key is set.
func NewDraftingServiceFromConfig(cfg config.OpenAIConfig) *DraftingService {
	if g := NewOpenAIGenerator(cfg); g != nil {
		return NewDraftingService(g)
	}
	utils.LogInfo("Chave da OpenAI não configurada, rascunhos usarão o modelo padrão")
	return NewDraftingService(nil)
}

func FallbackMessage(contact models.Contact, settings models.SettingsState) string {
	s, ok := settings.Get()
	if !ok {
		return fmt.Sprintf("Olá %s, gostaria de retomar nosso contato. Podemos falar?", contact.Name)
	}
	return fmt.Sprintf("Olá %s, aqui é %s. Gostaria de retomar nosso contato. Podemos falar?", contact.Name, s.AgentName)
}

// Draft writes a message for the contact. It never fails: without settings,
// without a generator, or when generation errors or comes back empty, the
// fallback template is returned.
func (d *DraftingService) Draft(ctx context.Context, contact models.Contact, settings models.SettingsState, isNudge bool) Draft {
	s, ok := settings.Get()
	if !ok || d.generator == nil {
		return Draft{Text: FallbackMessage(contact, settings)}
	}

	text, err := d.generate(ctx, contact, s, isNudge)
	if err != nil {
		utils.LogWarning("Geração de mensagem falhou para %s, usando modelo padrão: %v", contact.ID, err)
		return Draft{Text: FallbackMessage(contact, settings)}
	}
	return Draft{Text: text, Generated: true}
}

func (d *DraftingService) generate(ctx context.Context, contact models.Contact, s models.AppSettings, isNudge bool) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", models.ErrGeneration, r)
		}
	}()

	text, err = d.generator.Generate(ctx, Persona(s), BuildPrompt(contact, isNudge))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: resposta vazia", models.ErrGeneration)
	}
	return text, nil
}

func Persona(s models.AppSettings) string {
	return fmt.Sprintf(
		"Você é %s, corretor(a) de imóveis no Brasil. Escreva mensagens curtas de WhatsApp em português, "+
			"com tom %s. Não use marcadores de posição, não invente fatos e assine apenas com o primeiro nome.",
		s.AgentName, strings.ToLower(string(s.MessageTone)))
}

func typeLabel(t models.ContactType) string {
	switch t {
	case models.ContactTypeOwner:
		return "proprietário de imóvel"
	case models.ContactTypeBuilder:
		return "construtora/incorporadora parceira"
	default:
		return "cliente interessado em imóveis"
	}
}

func BuildPrompt(c models.Contact, isNudge bool) string {
	var b strings.Builder

	if isNudge {
		b.WriteString("Objetivo: o contato não respondeu à última mensagem. Escreva um lembrete gentil, sem pressionar, pedindo um retorno.\n")
	} else {
		b.WriteString("Objetivo: acompanhamento periódico para manter o relacionamento e descobrir novidades.\n")
	}

	fmt.Fprintf(&b, "Contato: %s\n", c.Name)
	fmt.Fprintf(&b, "Perfil: %s\n", typeLabel(c.Type))
	if c.LastContactDate != "" {
		fmt.Fprintf(&b, "Último contato: %s\n", c.LastContactDate)
	}
	if notes := strings.TrimSpace(c.Notes); notes != "" {
		fmt.Fprintf(&b, "Observações: %s\n", notes)
	}
	if p := c.Property; p != nil {
		var parts []string
		if p.Kind != "" {
			parts = append(parts, p.Kind)
		}
		if p.Bedrooms > 0 {
			parts = append(parts, fmt.Sprintf("%d quartos", p.Bedrooms))
		}
		if p.Address != "" {
			parts = append(parts, p.Address)
		}
		if p.Price > 0 {
			parts = append(parts, fmt.Sprintf("R$ %.2f", p.Price))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, "Imóvel: %s\n", strings.Join(parts, ", "))
		}
	}
	b.WriteString("Responda apenas com o texto da mensagem.")
	return b.String()
}
