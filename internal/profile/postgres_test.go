package profile

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var profileRows = []string{"id", "full_name", "email", "role", "is_landlord", "is_verified", "created_at", "updated_at"}

func TestPGStoreFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select id, full_name, email, role, is_landlord, is_verified, created_at, updated_at from profiles").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("u1", "Ada", "a@b.com", "landlord", true, false, now, now))

	store := NewPGStore(db)
	p, err := store.Find(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.Role != RoleLandlord || !p.IsLandlord {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, full_name, email").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreFindInfrastructureErrorIsNotNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	connErr := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	mock.ExpectQuery("select id, full_name, email").
		WithArgs("u1").
		WillReturnError(connErr)

	store := NewPGStore(db)
	_, err = store.Find(context.Background(), "u1")
	if errors.Is(err, ErrNotFound) {
		t.Fatal("connectivity failure must not be reported as not-found")
	}
	if !errors.Is(err, connErr) {
		t.Fatalf("expected raw infrastructure error, got %v", err)
	}
}

func TestPGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into profiles").
		WithArgs("u1", "Ada", "a@b.com", RoleTenant, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	p := &Profile{ID: "u1", FullName: "Ada", Email: "a@b.com", Role: RoleTenant}
	if err := store.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into profiles").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "profiles_pkey"})

	store := NewPGStore(db)
	p := &Profile{ID: "u1", Email: "a@b.com", Role: RoleTenant}
	if err := store.Create(context.Background(), p); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on unique violation, got %v", err)
	}
}

func TestPGStoreUpdateRoleSetsLandlordFlag(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("update profiles").
		WithArgs("u1", RoleLandlord).
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("u1", "Ada", "a@b.com", "landlord", true, false, now, now))

	store := NewPGStore(db)
	p, err := store.UpdateRole(context.Background(), "u1", RoleLandlord)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if !p.IsLandlord {
		t.Fatal("landlord flag must follow the role")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSetVerifiedNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("update profiles").
		WithArgs("ghost", true).
		WillReturnError(sql.ErrNoRows)

	store := NewPGStore(db)
	if _, err := store.SetVerified(context.Background(), "ghost", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
