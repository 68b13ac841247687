package entity

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
)

// Lead capture steps. The step only moves forward within a flow:
// 1 -> 2 -> 3 -> 4.
const (
	LeadStepNone     = 0 // no flow started
	LeadStepName     = 1 // awaiting name
	LeadStepEmail    = 2 // awaiting email
	LeadStepPhone    = 3 // awaiting phone
	LeadStepComplete = 4
)

// Lead is a prospective customer collected over several chat turns.
// Exactly one lead exists per user id.
type Lead struct {
	UserID               string     `json:"user_id"`
	Name                 string     `json:"name,omitempty"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	InterestedProperties []string   `json:"interested_properties"`
	Status               LeadStatus `json:"lead_status"`
	Step                 int        `json:"lead_step"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// LeadPatch carries the fields a single upsert should write. Nil pointers
// leave the stored value untouched.
type LeadPatch struct {
	Name                 *string
	Email                *string
	Phone                *string
	InterestedProperties []string
	Status               *LeadStatus
	Step                 *int
}
