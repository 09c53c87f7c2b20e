package models

import "time"

type CreateContactRequest struct {
	Name                  string        `json:"name" example:"João Silva" validate:"required"`
	Phone                 string        `json:"phone" example:"11999998888" validate:"required"`
	Type                  ContactType   `json:"type" example:"Client" validate:"oneof=Owner Builder Client"`
	LastContactDate       string        `json:"lastContactDate,omitempty" example:"2024-05-10"`
	Notes                 string        `json:"notes,omitempty"`
	FollowUpFrequencyDays *int          `json:"followUpFrequencyDays,omitempty"`
	AutoPilotEnabled      *bool         `json:"autoPilotEnabled,omitempty"`
	Property              *PropertyInfo `json:"property,omitempty"`
}

// UpdateContactRequest is a patch: nil fields keep the existing value.
type UpdateContactRequest struct {
	Name                  *string          `json:"name,omitempty"`
	Phone                 *string          `json:"phone,omitempty"`
	Type                  *ContactType     `json:"type,omitempty"`
	LastContactDate       *string          `json:"lastContactDate,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	FollowUpFrequencyDays *int             `json:"followUpFrequencyDays,omitempty"`
	AutoPilotEnabled      *bool            `json:"autoPilotEnabled,omitempty"`
	Property              *PropertyInfo    `json:"property,omitempty"`
	AutomationStage       *AutomationStage `json:"automationStage,omitempty"`
	LastAutomatedMsgDate  *time.Time       `json:"lastAutomatedMsgDate,omitempty"`
	LastReplyContent      *string          `json:"lastReplyContent,omitempty"`
	LastReplyTimestamp    *time.Time       `json:"lastReplyTimestamp,omitempty"`
	HasUnreadReply        *bool            `json:"hasUnreadReply,omitempty"`
}

// SendMessageRequest is the body of the remote POST /send.
type SendMessageRequest struct {
	Phone   string `json:"phone" example:"5511999998888"`
	Message string `json:"message" example:"Olá, como vai?"`
}

type DashboardSendRequest struct {
	Message string `json:"message" example:"Olá João, tudo bem?"`
}

type DraftRequest struct {
	IsNudge bool `json:"isNudge"`
}

type ImportRequest struct {
	Rows []string `json:"rows" example:"João Silva;11999998888;Cliente"`
}

type LoginRequest struct {
	Token string `json:"token"`
}

type SetupRequest struct {
	Settings AppSettings `json:"settings"`
	Password string      `json:"password"`
}

type AutomationEventRequest struct {
	Event   string `json:"event" example:"automated_send"`
	Content string `json:"content,omitempty"`
}
