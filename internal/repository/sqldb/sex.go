package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

const sexColumns = `id, nome, created_at, updated_at`

type sexRepository struct {
	BaseRepository
}

func NewSexRepository(base BaseRepository) repository.SexRepository {
	return &sexRepository{base}
}

func (r *sexRepository) Create(ctx context.Context, sex *model.Sex) (err error) {
	defer r.observe("sex_create", time.Now(), &err)

	sex.ID = uuid.New()
	sex.CreatedAt = now()
	sex.UpdatedAt = sex.CreatedAt

	_, err = r.db.ExecContext(ctx,
		r.q(`INSERT INTO sexos (`+sexColumns+`) VALUES (?, ?, ?, ?)`),
		sex.ID, sex.Name, sex.CreatedAt, sex.UpdatedAt,
	)
	return classify("sex", err)
}

func (r *sexRepository) Get(ctx context.Context, id uuid.UUID) (*model.Sex, error) {
	var sex model.Sex
	if err := r.db.GetContext(ctx, &sex, r.q(`SELECT `+sexColumns+` FROM sexos WHERE id = ?`), id); err != nil {
		return nil, classify("sex", err)
	}
	return &sex, nil
}

func (r *sexRepository) Update(ctx context.Context, sex *model.Sex) (err error) {
	defer r.observe("sex_update", time.Now(), &err)

	sex.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx,
		r.q(`UPDATE sexos SET nome = ?, updated_at = ? WHERE id = ?`),
		sex.Name, sex.UpdatedAt, sex.ID,
	)
	if err != nil {
		return classify("sex", err)
	}
	return expectOne("sex", result)
}

// Delete checks for referencing patients and removes the row in one transaction
func (r *sexRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("sex_delete", time.Now(), &err)

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var refs int
		if err := tx.GetContext(ctx, &refs, tx.Rebind(`SELECT COUNT(*) FROM pacientes WHERE sexo_id = ?`), id); err != nil {
			return classify("sex", err)
		}
		if refs > 0 {
			return apperrors.Conflict("sex is referenced by patients", nil)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sexos WHERE id = ?`), id)
		if err != nil {
			return classify("sex", err)
		}
		return expectOne("sex", result)
	})
}

func (r *sexRepository) List(ctx context.Context) ([]*model.Sex, error) {
	sexes := []*model.Sex{}
	if err := r.db.SelectContext(ctx, &sexes, `SELECT `+sexColumns+` FROM sexos ORDER BY nome`); err != nil {
		return nil, classify("sex", err)
	}
	return sexes, nil
}

// byIDs loads the sexes referenced by a page of patients
func (r *sexRepository) byIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Sex, error) {
	found := make(map[uuid.UUID]*model.Sex, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT `+sexColumns+` FROM sexos WHERE id IN (?)`, ids)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	var sexes []*model.Sex
	if err := r.db.SelectContext(ctx, &sexes, r.q(query), args...); err != nil {
		return nil, classify("sex", err)
	}
	for _, s := range sexes {
		found[s.ID] = s
	}
	return found, nil
}
