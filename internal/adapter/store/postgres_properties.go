package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"estate-core/internal/domain/entity"

	_ "github.com/lib/pq"
)

// listCap bounds a single directory query.
const listCap = 25

// PostgresPropertyDirectory answers exact-filter listing queries and takes
// ingestion writes.
type PostgresPropertyDirectory struct {
	db *sql.DB
}

func NewPostgresPropertyDirectory(db *sql.DB) *PostgresPropertyDirectory {
	return &PostgresPropertyDirectory{db: db}
}

// List returns available listings matching all set filters, in stable id
// order.
func (s *PostgresPropertyDirectory) List(ctx context.Context, filters entity.PropertyFilters) ([]entity.RetrievalItem, error) {
	var conditions []string
	var args []any

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	conditions = append(conditions, "available = TRUE")
	if filters.Type != "" {
		add("listing_type = $%d", filters.Type)
	}
	if filters.Category != "" {
		add("category = $%d", filters.Category)
	}
	if filters.Location != "" {
		add("location ILIKE '%%' || $%d || '%%'", filters.Location)
	}
	if filters.Bedrooms != nil {
		add("bedrooms = $%d", *filters.Bedrooms)
	}
	if filters.Bathrooms != nil {
		add("bathrooms = $%d", *filters.Bathrooms)
	}
	if filters.MinPrice != nil {
		add("price >= $%d", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		add("price <= $%d", *filters.MaxPrice)
	}
	if filters.Featured != nil {
		add("featured = $%d", *filters.Featured)
	}

	query := fmt.Sprintf(`
		SELECT id, title, location, price, bedrooms, bathrooms, area_sqm, available, description
		FROM properties
		WHERE %s
		ORDER BY id
		LIMIT %d`, strings.Join(conditions, " AND "), listCap)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var items []entity.RetrievalItem
	for rows.Next() {
		var item entity.RetrievalItem
		var description sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Location, &item.Price,
			&item.Bedrooms, &item.Bathrooms, &item.AreaSqm, &item.Available, &description); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		item.Kind = entity.ItemKindProperty
		item.Description = description.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertBatch writes the listings in one transaction.
func (s *PostgresPropertyDirectory) UpsertBatch(ctx context.Context, records []entity.PropertyRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO properties (id, title, location, price, bedrooms, bathrooms, area_sqm, available, listing_type, category, featured, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title        = EXCLUDED.title,
			location     = EXCLUDED.location,
			price        = EXCLUDED.price,
			bedrooms     = EXCLUDED.bedrooms,
			bathrooms    = EXCLUDED.bathrooms,
			area_sqm     = EXCLUDED.area_sqm,
			available    = EXCLUDED.available,
			listing_type = EXCLUDED.listing_type,
			category     = EXCLUDED.category,
			featured     = EXCLUDED.featured,
			description  = EXCLUDED.description`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.ID, record.Title, record.Location,
			record.Price, record.Bedrooms, record.Bathrooms, record.AreaSqm,
			record.Available, record.Type, record.Category, record.Featured, record.Description); err != nil {
			return fmt.Errorf("upsert property %s: %w", record.ID, err)
		}
	}
	return tx.Commit()
}
