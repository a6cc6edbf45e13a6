package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/MrEthical07/authkit/domain"
	"github.com/MrEthical07/authkit/pgstore/migrations"
)

const uniqueViolation = "23505"

// Open opens a database/sql pool through the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// UserStore is the PostgreSQL credential store. It satisfies the unified
// repository port; reads and writes both go through the supplied pool, so
// split read/write topologies should construct two stores.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a store bound to db. The schema must already be
// migrated; see RunMigrations.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, identifier, password_hash, credentials_version, last_login, metadata`

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		user     domain.User
		metadata []byte
	)
	err := row.Scan(
		&user.ID,
		&user.Identifier,
		&user.PasswordHash,
		&user.CredentialsVersion,
		&user.LastLogin,
		&metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &user.Metadata); err != nil {
			return nil, fmt.Errorf("decode user metadata: %w", err)
		}
	}
	return &user, nil
}

// FindByIdentifier returns the live user with the given identifier.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE identifier = $1 AND deleted_at IS NULL`

	return scanUser(s.db.QueryRowContext(ctx, query, identifier))
}

// FindByID returns the live user with the given id.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1 AND deleted_at IS NULL`

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// Create inserts the user. The partial unique index arbitrates concurrent
// registrations on one identifier; its violation maps to ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var metadata []byte
	if user.Metadata != nil {
		encoded, err := json.Marshal(user.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode user metadata: %w", err)
		}
		metadata = encoded
	}

	query := `INSERT INTO users (id, identifier, password_hash, credentials_version, last_login, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Identifier, user.PasswordHash, user.CredentialsVersion, user.LastLogin, metadata)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s.FindByID(ctx, user.ID)
}

func (s *UserStore) execOnLive(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin stamps the user's last login with the database clock.
func (s *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = now()
		 WHERE id = $1 AND deleted_at IS NULL`

	return s.execOnLive(ctx, query, id)
}

// Delete soft-deletes the user, freeing the identifier for reuse.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`

	return s.execOnLive(ctx, query, id)
}

// BumpCredentialsVersion increments the user's credential epoch.
func (s *UserStore) BumpCredentialsVersion(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET credentials_version = credentials_version + 1
		 WHERE id = $1 AND deleted_at IS NULL`

	return s.execOnLive(ctx, query, id)
}

// SetPasswordHash replaces the user's password hash.
func (s *UserStore) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $2
		 WHERE id = $1 AND deleted_at IS NULL`

	return s.execOnLive(ctx, query, id, hash)
}
