package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

// ContactService holds the pure contact operations: creation, patching,
// due-date rules and batch import.
type ContactService struct {
	newID func() string
}

func NewContactService() *ContactService {
	return &ContactService{newID: func() string { return uuid.NewString() }}
}

// GetDefaultFrequency maps a contact type to its cadence in days.
func GetDefaultFrequency(t models.ContactType, settings models.AppSettings) int {
	switch t {
	case models.ContactTypeOwner:
		return settings.DefaultFrequencyOwner
	case models.ContactTypeBuilder:
		return settings.DefaultFrequencyBuilder
	default:
		return settings.DefaultFrequencyClient
	}
}

func cadenceSource(state models.SettingsState) models.AppSettings {
	if s, ok := state.Get(); ok {
		return s
	}
	return models.DefaultAppSettings()
}

func (s *ContactService) CreateContact(req models.CreateContactRequest, settings models.SettingsState, today time.Time) (models.Contact, error) {
	name := strings.TrimSpace(req.Name)
	phone := utils.NormalizePhone(req.Phone)
	if name == "" || phone == "" {
		return models.Contact{}, fmt.Errorf("%w: nome e telefone são obrigatórios", models.ErrInvalidContact)
	}

	contactType := req.Type
	if contactType == "" {
		contactType = models.ContactTypeClient
	}

	frequency := GetDefaultFrequency(contactType, cadenceSource(settings))
	if req.FollowUpFrequencyDays != nil {
		frequency = *req.FollowUpFrequencyDays
	}

	lastContact := req.LastContactDate
	if lastContact == "" {
		lastContact = utils.FormatDate(today)
	}

	autoPilot := true
	if req.AutoPilotEnabled != nil {
		autoPilot = *req.AutoPilotEnabled
	}

	contact := models.Contact{
		ID:                    s.newID(),
		Name:                  name,
		Phone:                 phone,
		Type:                  contactType,
		LastContactDate:       lastContact,
		Notes:                 req.Notes,
		FollowUpFrequencyDays: frequency,
		AutomationStage:       models.StageIdle,
		AutoPilotEnabled:      &autoPilot,
		Property:              req.Property,
	}
	if err := ValidateContact(contact); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

// UpdateContact applies a patch. The id never changes and automation
// bookkeeping is only touched when the patch names those fields.
func (s *ContactService) UpdateContact(existing models.Contact, patch models.UpdateContactRequest) (models.Contact, error) {
	c := existing

	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		c.Phone = utils.NormalizePhone(*patch.Phone)
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
	if patch.LastContactDate != nil {
		c.LastContactDate = *patch.LastContactDate
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.FollowUpFrequencyDays != nil {
		c.FollowUpFrequencyDays = *patch.FollowUpFrequencyDays
	}
	if patch.AutoPilotEnabled != nil {
		v := *patch.AutoPilotEnabled
		c.AutoPilotEnabled = &v
	}
	if patch.Property != nil {
		c.Property = patch.Property
	}
	if patch.AutomationStage != nil {
		c.AutomationStage = *patch.AutomationStage
	}
	if patch.LastAutomatedMsgDate != nil {
		c.LastAutomatedMsgDate = patch.LastAutomatedMsgDate
	}
	if patch.LastReplyContent != nil {
		c.LastReplyContent = *patch.LastReplyContent
	}
	if patch.LastReplyTimestamp != nil {
		c.LastReplyTimestamp = patch.LastReplyTimestamp
	}
	if patch.HasUnreadReply != nil {
		c.HasUnreadReply = *patch.HasUnreadReply
	}

	if err := ValidateContact(c); err != nil {
		return existing, err
	}
	return c, nil
}

// DaysSinceContact counts whole days from the last contact to today.
func DaysSinceContact(c models.Contact, today time.Time) (int, error) {
	last, err := utils.ParseDate(c.LastContactDate)
	if err != nil {
		return 0, err
	}
	return utils.DaysBetween(last, today), nil
}

// IsDue reports whether the cadence has elapsed, independent of the
// automation stage. A contact without a readable last contact date is due.
func IsDue(c models.Contact, today time.Time) bool {
	days, err := DaysSinceContact(c, today)
	if err != nil {
		return true
	}
	return days >= c.FollowUpFrequencyDays
}

// DueContacts returns the due contacts, most overdue first.
func DueContacts(contacts []models.Contact, today time.Time) []models.Contact {
	due := make([]models.Contact, 0)
	overdue := make(map[string]int)
	for _, c := range contacts {
		if !IsDue(c, today) {
			continue
		}
		days, err := DaysSinceContact(c, today)
		if err != nil {
			days = int(^uint(0) >> 1)
		}
		overdue[c.ID] = days - c.FollowUpFrequencyDays
		due = append(due, c)
	}
	sort.SliceStable(due, func(i, j int) bool {
		return overdue[due[i].ID] > overdue[due[j].ID]
	})
	return due
}

var importTypeLabels = map[string]models.ContactType{
	"cliente":       models.ContactTypeClient,
	"client":        models.ContactTypeClient,
	"comprador":     models.ContactTypeClient,
	"proprietário":  models.ContactTypeOwner,
	"proprietario":  models.ContactTypeOwner,
	"owner":         models.ContactTypeOwner,
	"construtora":   models.ContactTypeBuilder,
	"incorporadora": models.ContactTypeBuilder,
	"builder":       models.ContactTypeBuilder,
}

func ParseContactType(label string) (models.ContactType, bool) {
	t, ok := importTypeLabels[strings.ToLower(strings.TrimSpace(label))]
	return t, ok
}

// ImportRows creates contacts from "name;phone;type" lines. A missing type
// column defaults to Client. Bad rows are reported and skipped.
func (s *ContactService) ImportRows(rows []string, settings models.SettingsState, today time.Time) models.ImportResult {
	result := models.ImportResult{Imported: make([]models.Contact, 0, len(rows))}

	for i, row := range rows {
		line := i + 1
		if strings.TrimSpace(row) == "" {
			continue
		}

		fields := strings.Split(row, ";")
		if len(fields) < 2 {
			result.Errors = append(result.Errors, models.ImportIssue{Line: line, Row: row, Reason: "esperado nome;telefone;tipo"})
			continue
		}

		contactType := models.ContactTypeClient
		if len(fields) >= 3 && strings.TrimSpace(fields[2]) != "" {
			t, ok := ParseContactType(fields[2])
			if !ok {
				result.Errors = append(result.Errors, models.ImportIssue{Line: line, Row: row, Reason: fmt.Sprintf("tipo desconhecido %q", strings.TrimSpace(fields[2]))})
				continue
			}
			contactType = t
		}

		contact, err := s.CreateContact(models.CreateContactRequest{
			Name:  fields[0],
			Phone: fields[1],
			Type:  contactType,
		}, settings, today)
		if err != nil {
			result.Errors = append(result.Errors, models.ImportIssue{Line: line, Row: row, Reason: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, contact)
	}

	return result
}
