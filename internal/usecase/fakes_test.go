package usecase

import (
	"context"
	"errors"

	"estate-core/internal/domain/entity"
)

// fakeEmbedderDim is large enough that every text in a test gets its own
// one-hot axis, so distinct texts score 0 and equal texts score 1.
const fakeEmbedderDim = 128

// fakeEmbedder returns canned vectors per text, or a per-text one-hot vector
// when none is registered.
type fakeEmbedder struct {
	vectors    map[string][]float32
	axes       map[string]int
	nextAxis   int
	batchErr   error
	embedErr   error
	batchCalls int
	embedCalls int
	// when set, EmbedBatch returns this many vectors regardless of input size
	forceBatchLen int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{}, axes: map[string]int{}}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	n := len(texts)
	if f.forceBatchLen > 0 {
		n = f.forceBatchLen
	}
	out := make([][]float32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.vectorFor(texts[i%len(texts)]))
	}
	return out, nil
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	axis, ok := f.axes[text]
	if !ok {
		axis = f.nextAxis % fakeEmbedderDim
		f.axes[text] = axis
		f.nextAxis++
	}
	v := make([]float32, fakeEmbedderDim)
	v[axis] = 1
	return v
}

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastInput  string
	calls      int
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userMessage string, _ int32, _ float32) (string, error) {
	f.calls++
	f.lastPrompt = systemPrompt
	f.lastInput = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeIndex struct {
	hits     []entity.IndexHit
	err      error
	queries  int
	upserted []entity.IndexPoint
	deleted  []string
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ uint64, _ map[string]string) ([]entity.IndexHit, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeIndex) Upsert(_ context.Context, points []entity.IndexPoint) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, points...)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeDirectory struct {
	items []entity.RetrievalItem
	err   error
	calls int
}

func (f *fakeDirectory) List(_ context.Context, _ entity.PropertyFilters) ([]entity.RetrievalItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeLeadStore is an in-memory LeadStore with upsert semantics.
type fakeLeadStore struct {
	leads   map[string]*entity.Lead
	getErr  error
	putErr  error
	upserts int
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{leads: map[string]*entity.Lead{}}
}

func (f *fakeLeadStore) Get(_ context.Context, userID string) (*entity.Lead, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	lead, ok := f.leads[userID]
	if !ok {
		return nil, nil
	}
	copied := *lead
	return &copied, nil
}

func (f *fakeLeadStore) Upsert(_ context.Context, userID string, patch entity.LeadPatch) (*entity.Lead, error) {
	f.upserts++
	if f.putErr != nil {
		return nil, f.putErr
	}
	lead, ok := f.leads[userID]
	if !ok {
		lead = &entity.Lead{UserID: userID, Status: entity.LeadStatusNew, Step: entity.LeadStepName}
		f.leads[userID] = lead
	}
	if patch.Name != nil {
		lead.Name = *patch.Name
	}
	if patch.Email != nil {
		lead.Email = *patch.Email
	}
	if patch.Phone != nil {
		lead.Phone = *patch.Phone
	}
	if patch.InterestedProperties != nil {
		lead.InterestedProperties = patch.InterestedProperties
	}
	if patch.Status != nil {
		lead.Status = *patch.Status
	}
	if patch.Step != nil {
		lead.Step = *patch.Step
	}
	copied := *lead
	return &copied, nil
}

type fakeHistory struct {
	turns   []entity.ConversationTurn
	err     error
	appends int
}

func (f *fakeHistory) Append(_ context.Context, turn entity.ConversationTurn) error {
	f.appends++
	if f.err != nil {
		return f.err
	}
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.ConversationTurn
	for _, turn := range f.turns {
		if turn.SessionID == sessionID {
			out = append(out, turn)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeWriter struct {
	records []entity.PropertyRecord
	err     error
}

func (f *fakeWriter) UpsertBatch(_ context.Context, records []entity.PropertyRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, records...)
	return nil
}

type fakeNotifier struct {
	notified []*entity.Lead
	err      error
}

func (f *fakeNotifier) NotifyLead(_ context.Context, lead *entity.Lead) error {
	f.notified = append(f.notified, lead)
	return f.err
}

type fakeLimiter struct {
	allowed    bool
	err        error
	increments int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allowed, nil
}

func (f *fakeLimiter) Increment(_ context.Context, _ string) error {
	f.increments++
	return nil
}

var errBoom = errors.New("boom")
