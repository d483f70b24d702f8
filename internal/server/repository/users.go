package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет нового пользователя и возвращает его id.
// Уникальность email обеспечивается констрейнтом в базе:
// нарушение маппится в ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, u models.User) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, college, contact_no, is_admin)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.College, u.ContactNo, u.IsAdmin,
	).Scan(&id)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" { // unique_violation
				return uuid.Nil, serr.ErrAlreadyExists
			}
		}
		return uuid.Nil, serr.ErrInternal
	}

	return id, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx,
		`SELECT id, name, email, password_hash, college, contact_no, is_admin, created_at
		 FROM users WHERE email=$1`,
		email,
	)
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx,
		`SELECT id, name, email, password_hash, college, contact_no, is_admin, created_at
		 FROM users WHERE id=$1`,
		id,
	)
}

func (r *UsersRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.College, &u.ContactNo, &u.IsAdmin, &u.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serr.ErrNotFound
		}
		return nil, serr.ErrInternal
	}

	return &u, nil
}

// List возвращает всех пользователей (админский обзор), новые первыми.
func (r *UsersRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, college, contact_no, is_admin, created_at
		 FROM users ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash,
			&u.College, &u.ContactNo, &u.IsAdmin, &u.CreatedAt,
		); err != nil {
			return nil, serr.ErrInternal
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}

	return users, nil
}

// SetAdmin выставляет пользователю флаг админа.
// Используется только adminctl: у HTTP API такой операции нет.
func (r *UsersRepository) SetAdmin(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_admin=true WHERE email=$1`, email)
	if err != nil {
		return serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}

	return nil
}

// Delete удаляет пользователя. Его книги удаляются каскадом (FK ON DELETE CASCADE),
// отдельного запроса по книгам здесь нет.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}

	return nil
}
