package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"estate-core/internal/domain/entity"

	_ "github.com/lib/pq"
)

type PostgresLeadStore struct {
	db *sql.DB
}

func NewPostgresLeadStore(db *sql.DB) *PostgresLeadStore {
	return &PostgresLeadStore{db: db}
}

const leadColumns = `user_id, name, email, phone, interested_properties, lead_status, lead_step, created_at, updated_at`

// Get returns (nil, nil) when no lead exists for the user.
func (s *PostgresLeadStore) Get(ctx context.Context, userID string) (*entity.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE user_id = $1`, userID)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return lead, err
}

// Upsert creates or patches the lead for userID; nil patch fields keep the
// stored value.
func (s *PostgresLeadStore) Upsert(ctx context.Context, userID string, patch entity.LeadPatch) (*entity.Lead, error) {
	var interested any
	if patch.InterestedProperties != nil {
		encoded, err := json.Marshal(patch.InterestedProperties)
		if err != nil {
			return nil, fmt.Errorf("encode interested properties: %w", err)
		}
		interested = string(encoded)
	}
	var status any
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (user_id, name, email, phone, interested_properties, lead_status, lead_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, '[]'), COALESCE($6, 'new'), COALESCE($7, 1), NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			name                  = COALESCE($2, leads.name),
			email                 = COALESCE($3, leads.email),
			phone                 = COALESCE($4, leads.phone),
			interested_properties = COALESCE($5, leads.interested_properties),
			lead_status           = COALESCE($6, leads.lead_status),
			lead_step             = COALESCE($7, leads.lead_step),
			updated_at            = NOW()`,
		userID, patch.Name, patch.Email, patch.Phone, interested, status, patch.Step)
	if err != nil {
		return nil, fmt.Errorf("upsert lead: %w", err)
	}
	return s.Get(ctx, userID)
}

func scanLead(row *sql.Row) (*entity.Lead, error) {
	var lead entity.Lead
	var name, email, phone, interested sql.NullString
	err := row.Scan(&lead.UserID, &name, &email, &phone, &interested,
		&lead.Status, &lead.Step, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, err
	}
	lead.Name = name.String
	lead.Email = email.String
	lead.Phone = phone.String
	lead.InterestedProperties = []string{}
	if interested.Valid && interested.String != "" {
		if err := json.Unmarshal([]byte(interested.String), &lead.InterestedProperties); err != nil {
			return nil, fmt.Errorf("decode interested properties: %w", err)
		}
	}
	return &lead, nil
}
