package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"campuscoffee/internal/pos/models"
	id "campuscoffee/pkg/domain"
	"campuscoffee/pkg/platform/tx"
)

const posColumns = `id, name, description, type, campus, street, house_number, postal_code, city, created_at, updated_at`

// PostgresStore persists POS records in PostgreSQL. The pos_name_key UNIQUE
// constraint is the authority on name uniqueness; its violation surfaces as
// ErrConflict.
type PostgresStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewPostgres constructs a PostgreSQL-backed store. A positive queryTimeout
// bounds every statement so a stalled database fails the request instead of
// hanging it.
func NewPostgres(db *sql.DB, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, queryTimeout: queryTimeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// conn joins the transaction carried by ctx, if any.
func (s *PostgresStore) conn(ctx context.Context) tx.Querier {
	return tx.Conn(ctx, s.db)
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, p *models.Pos) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO pos (name, description, type, campus, street, house_number, postal_code, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var newID int64
	err := s.conn(ctx).QueryRowContext(ctx, query,
		p.Name, p.Description, string(p.Type), string(p.Campus),
		p.Street, p.HouseNumber, p.PostalCode, p.City,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&newID)
	if err != nil {
		return mapError("insert pos", err)
	}
	p.ID = id.PosID(newID)
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, posID id.PosID) (*models.Pos, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + posColumns + ` FROM pos WHERE id = $1`
	p, err := scanPos(s.conn(ctx).QueryRowContext(ctx, query, int64(posID)))
	if err != nil {
		return nil, mapError("find pos by id", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Pos, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + posColumns + ` FROM pos WHERE name = $1`
	p, err := scanPos(s.conn(ctx).QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, mapError("find pos by name", err)
	}
	return p, nil
}

// ListAll returns every record ordered by id, which is insertion order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Pos, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT `+posColumns+` FROM pos ORDER BY id ASC`)
	if err != nil {
		return nil, mapError("list pos", err)
	}
	defer rows.Close()

	out := make([]*models.Pos, 0)
	for rows.Next() {
		p, err := scanPos(rows)
		if err != nil {
			return nil, mapError("scan pos", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list pos", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Pos) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE pos SET
			name = $2,
			description = $3,
			type = $4,
			campus = $5,
			street = $6,
			house_number = $7,
			postal_code = $8,
			city = $9,
			updated_at = $10
		WHERE id = $1
	`
	res, err := s.conn(ctx).ExecContext(ctx, query,
		int64(p.ID), p.Name, p.Description, string(p.Type), string(p.Campus),
		p.Street, p.HouseNumber, p.PostalCode, p.City, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update pos", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pos rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every record. The id sequence is left alone so ids are
// never handed out twice.
func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM pos`); err != nil {
		return mapError("delete all pos", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPos(row rowScanner) (*models.Pos, error) {
	var (
		p            models.Pos
		rawID        int64
		typ, campus  string
		created, upd time.Time
	)
	err := row.Scan(&rawID, &p.Name, &p.Description, &typ, &campus,
		&p.Street, &p.HouseNumber, &p.PostalCode, &p.City, &created, &upd)
	if err != nil {
		return nil, err
	}
	p.ID = id.PosID(rawID)
	p.Type = id.PosType(typ)
	p.Campus = id.CampusType(campus)
	p.CreatedAt = created.UTC()
	p.UpdatedAt = upd.UTC()
	return &p, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
