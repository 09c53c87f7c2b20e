package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imob-followup/internal/models"
)

func contactAt(stage models.AutomationStage) models.Contact {
	return models.Contact{
		ID:                    "c1",
		Name:                  "João Silva",
		Phone:                 "5511999998888",
		Type:                  models.ContactTypeClient,
		LastContactDate:       "2024-01-01",
		FollowUpFrequencyDays: 15,
		AutomationStage:       stage,
	}
}

func TestAdvanceAutomatedSendWalksEveryStage(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	c := contactAt(models.StageIdle)

	want := []models.AutomationStage{
		models.StageWaitingReply1,
		models.StageWaitingReply2,
		models.StageNoResponseAlert,
	}
	for _, stage := range want {
		var err error
		c, err = Advance(c, AutomatedSend(now))
		require.NoError(t, err)
		require.Equal(t, stage, c.AutomationStage)
		require.NotNil(t, c.LastAutomatedMsgDate)
		require.Equal(t, "2024-01-01", c.LastContactDate)
	}

	_, err := Advance(c, AutomatedSend(now))
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdvanceAutomatedSendRespectsAutoPilot(t *testing.T) {
	off := false
	c := contactAt(models.StageWaitingReply1)
	c.AutoPilotEnabled = &off

	got, err := Advance(c, AutomatedSend(time.Now()))
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.Equal(t, c, got)
}

func TestAdvanceResetsToIdle(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	stages := []models.AutomationStage{
		models.StageIdle,
		models.StageWaitingReply1,
		models.StageWaitingReply2,
		models.StageNoResponseAlert,
	}

	for _, stage := range stages {
		t.Run("manual send from "+stage.String(), func(t *testing.T) {
			got, err := Advance(contactAt(stage), ManualSend(at))
			require.NoError(t, err)
			require.Equal(t, models.StageIdle, got.AutomationStage)
			require.Equal(t, "2024-03-05", got.LastContactDate)
		})

		t.Run("reply from "+stage.String(), func(t *testing.T) {
			got, err := Advance(contactAt(stage), ReplyReceived("Tenho interesse", at))
			require.NoError(t, err)
			require.Equal(t, models.StageIdle, got.AutomationStage)
			require.Equal(t, "Tenho interesse", got.LastReplyContent)
			require.True(t, got.HasUnreadReply)
			require.Equal(t, at, *got.LastReplyTimestamp)
		})
	}
}

func TestAdvanceReplyReadKeepsStage(t *testing.T) {
	c := contactAt(models.StageWaitingReply2)
	c.HasUnreadReply = true

	got, err := Advance(c, ReplyRead())
	require.NoError(t, err)
	require.False(t, got.HasUnreadReply)
	require.Equal(t, models.StageWaitingReply2, got.AutomationStage)
}

func TestAdvanceUnknownEvent(t *testing.T) {
	c := contactAt(models.StageIdle)
	got, err := Advance(c, Event{Kind: "teleport"})
	require.ErrorIs(t, err, ErrUnknownEvent)
	require.Equal(t, c, got)

	_, err = ParseEventKind("teleport")
	require.ErrorIs(t, err, ErrUnknownEvent)

	k, err := ParseEventKind("reply_received")
	require.NoError(t, err)
	require.Equal(t, EventReplyReceived, k)
}
