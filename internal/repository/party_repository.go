package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

// PartyRepository defines data access for customers and sellers. Both live
// in tables with the same shape.
type PartyRepository interface {
	Create(ctx context.Context, party *domain.Party) error
	Update(ctx context.Context, party *domain.Party) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Party, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.Party, error)
	FindByName(ctx context.Context, name string) (*domain.Party, error)
	Search(ctx context.Context, name string) ([]*domain.Party, error)
}

var partyTables = map[domain.PartyKind]string{
	domain.PartyCustomer: "customers",
	domain.PartySeller:   "sellers",
}

const partyColumns = `id, name, national_id, address, created_at, updated_at`

type partyRepository struct {
	db    DBTX
	kind  domain.PartyKind
	table string
}

// NewPartyRepository creates a PartyRepository for the given kind
func NewPartyRepository(db DBTX, kind domain.PartyKind) PartyRepository {
	table, ok := partyTables[kind]
	if !ok {
		panic(fmt.Sprintf("unknown party kind %q", kind))
	}
	return &partyRepository{db: db, kind: kind, table: table}
}

func (r *partyRepository) scan(row rowScanner) (*domain.Party, error) {
	party := &domain.Party{Kind: r.kind}
	var address sql.NullString
	err := row.Scan(
		&party.ID,
		&party.Name,
		&party.NationalID,
		&address,
		&party.CreatedAt,
		&party.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	party.Address = address.String
	return party, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new party using parameterized queries
func (r *partyRepository) Create(ctx context.Context, party *domain.Party) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, national_id, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		party.ID,
		party.Name,
		party.NationalID,
		nullable(party.Address),
		party.CreatedAt,
		party.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s with national id %s: %w", r.kind, party.NationalID, domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}

	return nil
}

// Update overwrites the mutable fields of a party
func (r *partyRepository) Update(ctx context.Context, party *domain.Party) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, national_id = $3, address = $4, updated_at = $5
		WHERE id = $1
	`, r.table)

	result, err := r.db.ExecContext(
		ctx,
		query,
		party.ID,
		party.Name,
		party.NationalID,
		nullable(party.Address),
		party.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s with national id %s: %w", r.kind, party.NationalID, domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to update %s: %w", r.kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(string(r.kind), party.ID.String())
	}

	return nil
}

// Delete removes a party. Parties referenced by sales cannot be deleted.
func (r *partyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrInUse)
		}
		return fmt.Errorf("failed to delete %s: %w", r.kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(string(r.kind), id.String())
	}

	return nil
}

// FindByID retrieves a party by ID using parameterized queries
func (r *partyRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, partyColumns, r.table)
	return r.findOne(ctx, query, id.String(), id)
}

// FindByNationalID retrieves a party by its national identifier
func (r *partyRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.Party, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE national_id = $1`, partyColumns, r.table)
	return r.findOne(ctx, query, nationalID, nationalID)
}

// FindByName retrieves the oldest party with exactly this name
func (r *partyRepository) FindByName(ctx context.Context, name string) (*domain.Party, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = $1
		ORDER BY created_at ASC, id
		LIMIT 1
	`, partyColumns, r.table)
	return r.findOne(ctx, query, name, strings.TrimSpace(name))
}

func (r *partyRepository) findOne(ctx context.Context, query, ref string, arg any) (*domain.Party, error) {
	party, err := r.scan(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(string(r.kind), ref)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.kind, err)
	}
	return party, nil
}

// Search lists parties whose name contains the given text, ignoring case.
// An empty name lists everything.
func (r *partyRepository) Search(ctx context.Context, name string) ([]*domain.Party, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name ILIKE $1
		ORDER BY name ASC, id
	`, partyColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, "%"+strings.TrimSpace(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", r.table, err)
	}
	defer rows.Close()

	parties := []*domain.Party{}
	for rows.Next() {
		party, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.kind, err)
		}
		parties = append(parties, party)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.table, err)
	}

	return parties, nil
}
