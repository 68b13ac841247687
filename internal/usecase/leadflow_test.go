package usecase

import (
	"context"
	"testing"

	"estate-core/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdvanceLead(t *testing.T) {
	tests := []struct {
		name          string
		step          int
		input         string
		wantStep      int
		wantReply     string
		wantAdvanced  bool
		wantCompleted bool
	}{
		{"valid name with apostrophe and hyphen", entity.LeadStepName, "O'Brien-Smith", entity.LeadStepEmail, replyAskEmail, true, false},
		{"name with digits rejected", entity.LeadStepName, "John123", entity.LeadStepName, replyInvalidName, false, false},
		{"empty name rejected", entity.LeadStepName, "", entity.LeadStepName, replyInvalidName, false, false},
		{"email without at-sign rejected", entity.LeadStepEmail, "not-an-email", entity.LeadStepEmail, replyInvalidEmail, false, false},
		{"minimal email accepted", entity.LeadStepEmail, "a@b.com", entity.LeadStepPhone, replyAskPhone, true, false},
		{"short phone rejected", entity.LeadStepPhone, "12345", entity.LeadStepPhone, replyInvalidPhone, false, false},
		{"international phone accepted", entity.LeadStepPhone, "+15551234567", entity.LeadStepComplete, replyLeadConfirmed, true, true},
		{"phone without plus accepted", entity.LeadStepPhone, "5551234567", entity.LeadStepComplete, replyLeadConfirmed, true, true},
		{"complete lead acknowledges", entity.LeadStepComplete, "anything at all", entity.LeadStepComplete, replyAlreadyCaptured, false, false},
		{"step zero is a no-op", entity.LeadStepNone, "hello", entity.LeadStepNone, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := AdvanceLead(tt.step, tt.input)
			assert.Equal(t, tt.wantStep, tr.NextStep)
			assert.Equal(t, tt.wantReply, tr.Reply)
			assert.Equal(t, tt.wantAdvanced, tr.Advanced)
			assert.Equal(t, tt.wantCompleted, tr.Completed)
		})
	}
}

func TestAdvanceLead_IdempotentUnderInvalidInput(t *testing.T) {
	for i := 0; i < 3; i++ {
		tr := AdvanceLead(entity.LeadStepName, "John123")
		assert.Equal(t, entity.LeadStepName, tr.NextStep)
		assert.False(t, tr.Advanced)
	}
}

func newTestLeadFlow() (*LeadFlow, *fakeLeadStore, *fakeHistory, *fakeNotifier) {
	leads := newFakeLeadStore()
	history := &fakeHistory{}
	notifier := &fakeNotifier{}
	return NewLeadFlow(leads, history, notifier, zap.NewNop()), leads, history, notifier
}

func TestLeadFlow_StartCreatesLeadAtStepOne(t *testing.T) {
	flow, leads, _, _ := newTestLeadFlow()

	reply, err := flow.Start(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, replyAskName, reply)

	lead, err := leads.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, entity.LeadStepName, lead.Step)
}

func TestLeadFlow_StepPersistsValidName(t *testing.T) {
	flow, leads, _, _ := newTestLeadFlow()
	_, err := flow.Start(context.Background(), "user-1")
	require.NoError(t, err)
	lead, _ := leads.Get(context.Background(), "user-1")

	reply, err := flow.Step(context.Background(), lead, "sess", "O'Brien-Smith")
	require.NoError(t, err)
	assert.Equal(t, replyAskEmail, reply)

	updated, _ := leads.Get(context.Background(), "user-1")
	assert.Equal(t, "O'Brien-Smith", updated.Name)
	assert.Equal(t, entity.LeadStepEmail, updated.Step)
}

func TestLeadFlow_InvalidInputWritesNothing(t *testing.T) {
	flow, leads, _, _ := newTestLeadFlow()
	_, err := flow.Start(context.Background(), "user-1")
	require.NoError(t, err)
	lead, _ := leads.Get(context.Background(), "user-1")
	upsertsBefore := leads.upserts

	reply, err := flow.Step(context.Background(), lead, "sess", "John123")
	require.NoError(t, err)
	assert.Equal(t, replyInvalidName, reply)
	assert.Equal(t, upsertsBefore, leads.upserts, "validation failure must not touch the store")

	unchanged, _ := leads.Get(context.Background(), "user-1")
	assert.Empty(t, unchanged.Name)
	assert.Equal(t, entity.LeadStepName, unchanged.Step)
}

func TestLeadFlow_CompletionNotifiesAndCapturesInterests(t *testing.T) {
	flow, leads, history, notifier := newTestLeadFlow()
	history.turns = []entity.ConversationTurn{
		{SessionID: "sess", UserMessage: "2 bedroom apartment in lusail"},
		{SessionID: "sess", UserMessage: "anything cheaper?"},
		{SessionID: "other", UserMessage: "unrelated session"},
	}

	_, err := flow.Start(context.Background(), "user-1")
	require.NoError(t, err)
	lead, _ := leads.Get(context.Background(), "user-1")

	_, err = flow.Step(context.Background(), lead, "sess", "Jane Doe")
	require.NoError(t, err)
	lead, _ = leads.Get(context.Background(), "user-1")
	_, err = flow.Step(context.Background(), lead, "sess", "jane@example.com")
	require.NoError(t, err)
	lead, _ = leads.Get(context.Background(), "user-1")

	reply, err := flow.Step(context.Background(), lead, "sess", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, replyLeadConfirmed, reply)

	final, _ := leads.Get(context.Background(), "user-1")
	assert.Equal(t, entity.LeadStepComplete, final.Step)
	assert.Equal(t, "+15551234567", final.Phone)
	assert.Equal(t, []string{"2 bedroom apartment in lusail", "anything cheaper?"}, final.InterestedProperties)

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, "Jane Doe", notifier.notified[0].Name)
}

func TestLeadFlow_NotificationFailureStillConfirms(t *testing.T) {
	flow, leads, _, notifier := newTestLeadFlow()
	notifier.err = errBoom

	_, err := flow.Start(context.Background(), "user-1")
	require.NoError(t, err)
	lead, _ := leads.Get(context.Background(), "user-1")
	_, err = flow.Step(context.Background(), lead, "sess", "Jane")
	require.NoError(t, err)
	lead, _ = leads.Get(context.Background(), "user-1")
	_, err = flow.Step(context.Background(), lead, "sess", "jane@example.com")
	require.NoError(t, err)
	lead, _ = leads.Get(context.Background(), "user-1")

	reply, err := flow.Step(context.Background(), lead, "sess", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, replyLeadConfirmed, reply)
}

func TestLeadFlow_CompleteLeadDoesNotMutate(t *testing.T) {
	flow, leads, _, notifier := newTestLeadFlow()
	step := entity.LeadStepComplete
	_, err := leads.Upsert(context.Background(), "user-1", entity.LeadPatch{Step: &step})
	require.NoError(t, err)
	lead, _ := leads.Get(context.Background(), "user-1")
	upsertsBefore := leads.upserts

	reply, err := flow.Step(context.Background(), lead, "sess", "please call me again")
	require.NoError(t, err)
	assert.Equal(t, replyAlreadyCaptured, reply)
	assert.Equal(t, upsertsBefore, leads.upserts)
	assert.Empty(t, notifier.notified)
}
