package models

type MessageTone string

const (
	ToneFormal     MessageTone = "Formal"
	ToneCasual     MessageTone = "Casual"
	TonePersuasive MessageTone = "Persuasivo"
	ToneFriendly   MessageTone = "Amigável"
)

type IntegrationMode string

const (
	IntegrationBrowser IntegrationMode = "browser"
	IntegrationServer  IntegrationMode = "server"
)

type AppSettings struct {
	AgentName               string          `json:"agentName" validate:"required"`
	MessageTone             MessageTone     `json:"messageTone" validate:"oneof=Formal Casual Persuasivo Amigável"`
	DefaultFrequencyOwner   int             `json:"defaultFrequencyOwner" validate:"gt=0"`
	DefaultFrequencyBuilder int             `json:"defaultFrequencyBuilder" validate:"gt=0"`
	DefaultFrequencyClient  int             `json:"defaultFrequencyClient" validate:"gt=0"`
	IntegrationMode         IntegrationMode `json:"integrationMode" validate:"oneof=browser server"`
	ServerURL               string          `json:"serverUrl,omitempty" validate:"required_if=IntegrationMode server"`
	PreferredWhatsappMode   string          `json:"preferredWhatsappMode,omitempty"`
	WhatsappConnected       bool            `json:"whatsappConnected"`
}

// DefaultAppSettings are the values the setup wizard starts from.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		MessageTone:             ToneFriendly,
		DefaultFrequencyOwner:   30,
		DefaultFrequencyBuilder: 45,
		DefaultFrequencyClient:  15,
		IntegrationMode:         IntegrationServer,
	}
}

// SettingsState is either Configured or Unconfigured. Callers branch on Get
// instead of checking for nil settings.
type SettingsState struct {
	settings *AppSettings
}

func Configured(s AppSettings) SettingsState {
	return SettingsState{settings: &s}
}

func Unconfigured() SettingsState {
	return SettingsState{}
}

func (s SettingsState) Get() (AppSettings, bool) {
	if s.settings == nil {
		return AppSettings{}, false
	}
	return *s.settings, true
}

func (s SettingsState) IsConfigured() bool {
	return s.settings != nil
}
