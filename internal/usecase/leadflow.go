package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"estate-core/internal/domain/entity"
	"estate-core/internal/domain/repository"

	"go.uber.org/zap"
)

// Fixed replies of the capture flow.
const (
	replyAskName         = "Can you give me your name?"
	replyAskEmail        = "Thanks! Can I have your email?"
	replyAskPhone        = "Great! Finally, your phone number?"
	replyLeadConfirmed   = "We'll have an agent contact you soon!"
	replyAlreadyCaptured = "You're already in our system, we'll reach out shortly!"
	replyInvalidName     = "Name contains invalid characters."
	replyInvalidEmail    = "Please provide a valid email address."
	replyInvalidPhone    = "Please provide a valid phone number."
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// LeadField names the lead field a transition persists.
type LeadField int

const (
	FieldNone LeadField = iota
	FieldName
	FieldEmail
	FieldPhone
)

// LeadTransition is the outcome of feeding one message into the state
// machine. When Advanced is false the stored lead must not change.
type LeadTransition struct {
	NextStep  int
	Field     LeadField
	Value     string
	Reply     string
	Advanced  bool
	Completed bool
}

// AdvanceLead is the pure transition function of the capture flow. Invalid
// input keeps the step where it is, so replaying a bad message is a no-op.
func AdvanceLead(step int, input string) LeadTransition {
	switch step {
	case entity.LeadStepName:
		if input == "" || !namePattern.MatchString(input) {
			return LeadTransition{NextStep: step, Reply: replyInvalidName}
		}
		return LeadTransition{NextStep: entity.LeadStepEmail, Field: FieldName, Value: input, Reply: replyAskEmail, Advanced: true}
	case entity.LeadStepEmail:
		if !strings.Contains(input, "@") {
			return LeadTransition{NextStep: step, Reply: replyInvalidEmail}
		}
		return LeadTransition{NextStep: entity.LeadStepPhone, Field: FieldEmail, Value: input, Reply: replyAskPhone, Advanced: true}
	case entity.LeadStepPhone:
		if !phonePattern.MatchString(input) {
			return LeadTransition{NextStep: step, Reply: replyInvalidPhone}
		}
		return LeadTransition{NextStep: entity.LeadStepComplete, Field: FieldPhone, Value: input, Reply: replyLeadConfirmed, Advanced: true, Completed: true}
	case entity.LeadStepComplete:
		return LeadTransition{NextStep: step, Reply: replyAlreadyCaptured}
	default:
		return LeadTransition{NextStep: step}
	}
}

// interestContextTurns is how many recent turns feed interested_properties.
const interestContextTurns = 5

// LeadFlow drives the multi-turn capture flow against the lead store and
// fires the completion notification.
type LeadFlow struct {
	leads    repository.LeadStore
	history  repository.HistoryStore
	notifier repository.NotificationSink
	log      *zap.Logger
}

func NewLeadFlow(leads repository.LeadStore, history repository.HistoryStore, notifier repository.NotificationSink, log *zap.Logger) *LeadFlow {
	return &LeadFlow{leads: leads, history: history, notifier: notifier, log: log}
}

// Start creates a lead at step 1 and asks for the name.
func (f *LeadFlow) Start(ctx context.Context, userID string) (string, error) {
	step := entity.LeadStepName
	if _, err := f.leads.Upsert(ctx, userID, entity.LeadPatch{Step: &step}); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return replyAskName, nil
}

// Step validates and consumes the message as the field the lead is waiting
// for. A validation failure writes nothing and keeps the step unchanged.
func (f *LeadFlow) Step(ctx context.Context, lead *entity.Lead, sessionID, input string) (string, error) {
	tr := AdvanceLead(lead.Step, strings.TrimSpace(input))
	if !tr.Advanced {
		return tr.Reply, nil
	}

	patch := entity.LeadPatch{Step: &tr.NextStep}
	switch tr.Field {
	case FieldName:
		patch.Name = &tr.Value
	case FieldEmail:
		patch.Email = &tr.Value
	case FieldPhone:
		patch.Phone = &tr.Value
	}
	if tr.Completed {
		patch.InterestedProperties = f.recentInterests(ctx, sessionID)
	}

	updated, err := f.leads.Upsert(ctx, lead.UserID, patch)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}

	if tr.Completed {
		// Best-effort: the confirmation goes out even if the email does not.
		if err := f.notifier.NotifyLead(ctx, updated); err != nil {
			f.log.Error("lead notification failed",
				zap.String("user_id", lead.UserID),
				zap.Error(err))
		}
	}
	return tr.Reply, nil
}

// recentInterests captures the user side of the recent conversation as the
// lead's interest context.
func (f *LeadFlow) recentInterests(ctx context.Context, sessionID string) []string {
	turns, err := f.history.Recent(ctx, sessionID, interestContextTurns)
	if err != nil {
		f.log.Warn("could not load history for lead interests",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil
	}
	interests := make([]string, 0, len(turns))
	for _, turn := range turns {
		if turn.UserMessage != "" {
			interests = append(interests, turn.UserMessage)
		}
	}
	return interests
}
