// Package automation defines the transitions of a contact through the
// two-attempt follow-up sequence.
package automation

import (
	"errors"
	"fmt"
	"time"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

var (
	ErrIllegalTransition = errors.New("illegal_transition")
	ErrUnknownEvent      = errors.New("unknown_event")
)

type EventKind string

const (
	EventAutomatedSend EventKind = "automated_send"
	EventManualSend    EventKind = "manual_send"
	EventReplyReceived EventKind = "reply_received"
	EventReplyRead     EventKind = "reply_read"
)

type Event struct {
	Kind    EventKind
	At      time.Time
	Content string
}

func AutomatedSend(at time.Time) Event { return Event{Kind: EventAutomatedSend, At: at} }

func ManualSend(at time.Time) Event { return Event{Kind: EventManualSend, At: at} }

func ReplyReceived(content string, at time.Time) Event {
	return Event{Kind: EventReplyReceived, At: at, Content: content}
}

func ReplyRead() Event { return Event{Kind: EventReplyRead} }

func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventAutomatedSend, EventManualSend, EventReplyReceived, EventReplyRead:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Advance applies one event to the contact and returns the updated copy.
//
//	AutomatedSend: Idle -> WaitingReply1 -> WaitingReply2 -> NoResponseAlert
//	ManualSend, ReplyReceived: any -> Idle
//	ReplyRead: stage unchanged, clears the unread flag
//
// On error the input contact is returned unchanged.
func Advance(c models.Contact, e Event) (models.Contact, error) {
	next := c

	switch e.Kind {
	case EventAutomatedSend:
		if !c.AutoPilot() {
			return c, fmt.Errorf("%w: piloto automático desativado para %s", ErrIllegalTransition, c.ID)
		}
		if c.AutomationStage >= models.StageNoResponseAlert || c.AutomationStage < models.StageIdle {
			return c, fmt.Errorf("%w: %s não avança com envio automático", ErrIllegalTransition, c.AutomationStage)
		}
		next.AutomationStage = c.AutomationStage + 1
		at := e.At
		next.LastAutomatedMsgDate = &at

	case EventManualSend:
		next.AutomationStage = models.StageIdle
		next.LastContactDate = utils.FormatDate(e.At)

	case EventReplyReceived:
		next.AutomationStage = models.StageIdle
		next.LastContactDate = utils.FormatDate(e.At)
		next.LastReplyContent = e.Content
		at := e.At
		next.LastReplyTimestamp = &at
		next.HasUnreadReply = true

	case EventReplyRead:
		next.HasUnreadReply = false

	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}

	return next, nil
}
