// Package repo contains all database access logic for the TripWeaver API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripweaver/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres error code for unique constraint violations,
// used to detect duplicate email registrations.
const uniqueViolation = "23505"

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepo defines the persistence operations for user accounts and their
// email verification codes.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns ErrDuplicateEmail if the email is already taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns domain.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByID retrieves a user by its UUID primary key.
	// Returns domain.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// MarkVerified flips the user's verified flag.
	// Returns domain.ErrNotFound if no such user exists.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// CreateVerification stores a one-time verification code for a user,
	// replacing any previous code.
	CreateVerification(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error

	// ConsumeVerification deletes a matching, unexpired verification code and
	// returns the user ID it belonged to.
	// Returns domain.ErrNotFound if no matching code exists or it has expired.
	ConsumeVerification(ctx context.Context, email, code string) (uuid.UUID, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash)
		VALUES (@name, @email, @password_hash)
		RETURNING id, name, email, password_hash, verified, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", ErrDuplicateEmail)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT id, name, email, password_hash, verified, created_at, updated_at
		FROM users
		WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT id, name, email, password_hash, verified, created_at, updated_at
		FROM users
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE users
		SET verified = true, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.MarkVerified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.MarkVerified: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepo) CreateVerification(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	// One active code per user: replace any previous one.
	const del = `DELETE FROM email_verifications WHERE user_id = @user_id`
	if _, err := r.db.Exec(ctx, del, pgx.NamedArgs{"user_id": userID}); err != nil {
		return fmt.Errorf("repo.UserRepo.CreateVerification: %w", err)
	}

	const q = `
		INSERT INTO email_verifications (user_id, code, expires_at)
		VALUES (@user_id, @code, @expires_at)`

	args := pgx.NamedArgs{
		"user_id":    userID,
		"code":       code,
		"expires_at": expiresAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.UserRepo.CreateVerification: %w", err)
	}
	return nil
}

func (r *pgUserRepo) ConsumeVerification(ctx context.Context, email, code string) (uuid.UUID, error) {
	const q = `
		DELETE FROM email_verifications v
		USING users u
		WHERE v.user_id = u.id
		  AND u.email = @email
		  AND v.code = @code
		  AND v.expires_at > now()
		RETURNING v.user_id`

	args := pgx.NamedArgs{
		"email": email,
		"code":  code,
	}

	var userID pgtype.UUID
	err := r.db.QueryRow(ctx, q, args).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("repo.UserRepo.ConsumeVerification: %w", domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("repo.UserRepo.ConsumeVerification: %w", err)
	}
	return uuid.UUID(userID.Bytes), nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
