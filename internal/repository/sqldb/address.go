package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
)

const addressColumns = `id, cep, endereco, numero, bairro, uf, created_at, updated_at`

type addressRepository struct {
	BaseRepository
}

func NewAddressRepository(base BaseRepository) repository.AddressRepository {
	return &addressRepository{base}
}

func (r *addressRepository) Create(ctx context.Context, address *model.Address) (err error) {
	defer r.observe("address_create", time.Now(), &err)

	query := `
		INSERT INTO enderecos (` + addressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	address.ID = uuid.New()
	address.CreatedAt = now()
	address.UpdatedAt = address.CreatedAt

	_, err = r.db.ExecContext(ctx, r.q(query),
		address.ID,
		address.PostalCode,
		address.Street,
		address.Number,
		address.Neighborhood,
		address.State,
		address.CreatedAt,
		address.UpdatedAt,
	)
	return classify("address", err)
}

func (r *addressRepository) Get(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	var address model.Address
	query := `SELECT ` + addressColumns + ` FROM enderecos WHERE id = ?`
	if err := r.db.GetContext(ctx, &address, r.q(query), id); err != nil {
		return nil, classify("address", err)
	}
	return &address, nil
}

func (r *addressRepository) Update(ctx context.Context, address *model.Address) (err error) {
	defer r.observe("address_update", time.Now(), &err)

	query := `
		UPDATE enderecos SET
			cep = ?,
			endereco = ?,
			numero = ?,
			bairro = ?,
			uf = ?,
			updated_at = ?
		WHERE id = ?
	`

	address.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, r.q(query),
		address.PostalCode,
		address.Street,
		address.Number,
		address.Neighborhood,
		address.State,
		address.UpdatedAt,
		address.ID,
	)
	if err != nil {
		return classify("address", err)
	}
	return expectOne("address", result)
}

func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("address_delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, r.q(`DELETE FROM enderecos WHERE id = ?`), id)
	if err != nil {
		return classify("address", err)
	}
	return expectOne("address", result)
}

func (r *addressRepository) List(ctx context.Context) ([]*model.Address, error) {
	addresses := []*model.Address{}
	query := `SELECT ` + addressColumns + ` FROM enderecos ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &addresses, query); err != nil {
		return nil, classify("address", err)
	}
	return addresses, nil
}
