package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/oakmount/accounts-api/internal/adapters/postgres"
	"github.com/oakmount/accounts-api/internal/domain"
	"github.com/oakmount/accounts-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			external_id,
			subject,
			display_name,
			email,
			bio,
			is_active,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		string(u.Subject),
		u.DisplayName,
		u.Email,
		u.Bio,
		u.IsActive,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "users_subject_unique":
				return userrepo.ErrSubjectAlreadyBound
			case "users_external_id_unique":
				return userrepo.ErrAlreadyExists
			default:
				return err
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := getUserByExternalID(ctx, tx, id)
		if err != nil {
			return err
		}
		// Subject binding is immutable.
		if existing.Subject != u.Subject {
			return userrepo.ErrSubjectAlreadyBound
		}

		_, err = tx.Exec(ctx, `
			UPDATE users
			SET display_name = $2,
			    email = $3,
			    bio = $4,
			    is_active = $5,
			    updated_at = $6
			WHERE external_id = $1
		`,
			id,
			u.DisplayName,
			u.Email,
			u.Bio,
			u.IsActive,
			u.UpdatedAt.UTC(),
		)
		return err
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		// A non-UUID ID can never exist in this store.
		return userrepo.User{}, userrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, selectUser+` WHERE external_id = $1`, uid)
	return scanUser(row)
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, selectUser+` WHERE subject = $1`, string(subject))
	return scanUser(row)
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]userrepo.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	q := selectUser
	if !includeInactive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY lower(display_name), external_id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]userrepo.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const selectUser = `
	SELECT external_id, subject, display_name, email, bio, is_active, created_at, updated_at
	FROM users`

func getUserByExternalID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (userrepo.User, error) {
	row := tx.QueryRow(ctx, selectUser+` WHERE external_id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (userrepo.User, error) {
	var (
		id  uuid.UUID
		u   userrepo.User
		sub string
	)
	err := row.Scan(&id, &sub, &u.DisplayName, &u.Email, &u.Bio, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	u.ID = domain.UserID(id.String())
	u.Subject = domain.SubjectID(sub)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
