package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
)

const userColumns = `id, nome, email, senha_hash, external_id, tipo, created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer r.observe("user_create", time.Now(), &err)

	query := `
		INSERT INTO usuarios (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	user.ID = uuid.New()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = model.UserRoleUser
	}

	_, err = r.db.ExecContext(ctx, r.q(query),
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ExternalID,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return classify("user", err)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = ?`

	var user model.User
	if err := r.db.GetContext(ctx, &user, r.q(query), id); err != nil {
		return nil, classify("user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE email = ?`

	var user model.User
	if err := r.db.GetContext(ctx, &user, r.q(query), email); err != nil {
		return nil, classify("user", err)
	}
	return &user, nil
}

// FindByEmailOrExternalID prefers the row already linked to the external identity
func (r *userRepository) FindByEmailOrExternalID(ctx context.Context, email, externalID string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM usuarios
		WHERE email = ? OR external_id = ?
		ORDER BY CASE WHEN external_id = ? THEN 0 ELSE 1 END
		LIMIT 1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, r.q(query), email, externalID, externalID); err != nil {
		return nil, classify("user", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (err error) {
	defer r.observe("user_update", time.Now(), &err)

	query := `
		UPDATE usuarios SET
			nome = ?,
			email = ?,
			senha_hash = ?,
			external_id = ?,
			tipo = ?,
			updated_at = ?
		WHERE id = ?
	`

	user.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, r.q(query),
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ExternalID,
		user.Role,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return classify("user", err)
	}
	return expectOne("user", result)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("user_delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, r.q(`DELETE FROM usuarios WHERE id = ?`), id)
	if err != nil {
		return classify("user", err)
	}
	return expectOne("user", result)
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY nome, created_at`

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, classify("user", err)
	}
	return users, nil
}
