package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// Open connects to PostgreSQL and returns a store with tuned pool defaults.
func Open(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PGStore{db: db}, nil
}

// NewPGStore wraps an existing connection pool.
func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) DB() *sql.DB { return s.db }

const profileColumns = `id, full_name, email, role, is_landlord, is_verified, created_at, updated_at`

func (s *PGStore) Find(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+profileColumns+` from profiles where id=$1`, id)
	return scanProfile(row)
}

func (s *PGStore) Create(ctx context.Context, p *Profile) error {
	_, err := s.db.ExecContext(ctx,
		`insert into profiles(id, full_name, email, role, is_landlord, is_verified)
		 values($1,$2,$3,$4,$5,$6)`,
		p.ID, p.FullName, p.Email, p.Role, p.IsLandlord, p.IsVerified,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *PGStore) UpdateRole(ctx context.Context, id string, role Role) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`update profiles
		 set role=$2, is_landlord=($2='landlord'), updated_at=now()
		 where id=$1
		 returning `+profileColumns,
		id, role,
	)
	return scanProfile(row)
}

func (s *PGStore) SetVerified(ctx context.Context, id string, verified bool) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`update profiles set is_verified=$2, updated_at=now()
		 where id=$1
		 returning `+profileColumns,
		id, verified,
	)
	return scanProfile(row)
}

func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Role, &p.IsLandlord, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
