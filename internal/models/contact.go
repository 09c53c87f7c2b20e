package models

import "time"

type ContactType string

const (
	ContactTypeOwner   ContactType = "Owner"
	ContactTypeBuilder ContactType = "Builder"
	ContactTypeClient  ContactType = "Client"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeOwner, ContactTypeBuilder, ContactTypeClient:
		return true
	}
	return false
}

// AutomationStage is the position of a contact in the two-attempt nudge sequence.
type AutomationStage int

const (
	StageIdle            AutomationStage = 0 // nenhuma mensagem automática pendente
	StageWaitingReply1   AutomationStage = 1 // primeira tentativa enviada
	StageWaitingReply2   AutomationStage = 2 // segunda tentativa enviada
	StageNoResponseAlert AutomationStage = 3 // sem resposta após duas tentativas
)

func (s AutomationStage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageWaitingReply1:
		return "WaitingReply1"
	case StageWaitingReply2:
		return "WaitingReply2"
	case StageNoResponseAlert:
		return "NoResponseAlert"
	default:
		return "Unknown"
	}
}

type PropertyInfo struct {
	Kind     string  `json:"kind,omitempty"`
	Address  string  `json:"address,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Bedrooms int     `json:"bedrooms,omitempty"`
}

type Contact struct {
	ID                    string          `json:"id" validate:"required"`
	Name                  string          `json:"name" validate:"required"`
	Phone                 string          `json:"phone" validate:"required,numeric"`
	Type                  ContactType     `json:"type" validate:"oneof=Owner Builder Client"`
	LastContactDate       string          `json:"lastContactDate" validate:"required,datetime=2006-01-02"`
	Notes                 string          `json:"notes"`
	FollowUpFrequencyDays int             `json:"followUpFrequencyDays" validate:"gt=0"`
	AutomationStage       AutomationStage `json:"automationStage" validate:"gte=0,lte=3"`
	AutoPilotEnabled      *bool           `json:"autoPilotEnabled,omitempty"`
	Property              *PropertyInfo   `json:"property,omitempty"`
	LastAutomatedMsgDate  *time.Time      `json:"lastAutomatedMsgDate,omitempty"`
	LastReplyContent      string          `json:"lastReplyContent,omitempty"`
	LastReplyTimestamp    *time.Time      `json:"lastReplyTimestamp,omitempty"`
	HasUnreadReply        bool            `json:"hasUnreadReply,omitempty"`
}

// AutoPilot reports whether the contact takes part in automated stage advancement.
// A missing flag counts as enabled.
func (c Contact) AutoPilot() bool {
	return c.AutoPilotEnabled == nil || *c.AutoPilotEnabled
}

// ContactRepository owns the session's contact list. The list is only ever
// replaced wholesale; readers get copies.
type ContactRepository interface {
	ReplaceAll(contacts []Contact)
	GetAll() []Contact
	GetByID(id string) (Contact, bool)
}
