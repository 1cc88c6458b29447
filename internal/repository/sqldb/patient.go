package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
)

const patientColumns = `id, nome_completo, data_nascimento, nome_mae, nome_pai, cpf, num_sus, sexo_id,
	cep, endereco, numero, complemento, bairro, cidade, uf, created_at, updated_at`

type patientRepository struct {
	BaseRepository
	sexes *sexRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{BaseRepository: base, sexes: &sexRepository{base}}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patient_create", time.Now(), &err)

	query := `
		INSERT INTO pacientes (` + patientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	patient.ID = uuid.New()
	patient.CreatedAt = now()
	patient.UpdatedAt = patient.CreatedAt

	_, err = r.db.ExecContext(ctx, r.q(query),
		patient.ID,
		patient.FullName,
		patient.BirthDate,
		patient.MotherName,
		patient.FatherName,
		patient.CPF,
		patient.SUSNumber,
		patient.SexID,
		patient.PostalCode,
		patient.Street,
		patient.Number,
		patient.Complement,
		patient.Neighborhood,
		patient.City,
		patient.State,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	return classify("patient", err)
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM pacientes WHERE id = ?`
	if err := r.db.GetContext(ctx, &patient, r.q(query), id); err != nil {
		return nil, classify("patient", err)
	}

	if err := r.attachSexes(ctx, []*model.Patient{&patient}); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patient_update", time.Now(), &err)

	query := `
		UPDATE pacientes SET
			nome_completo = ?,
			data_nascimento = ?,
			nome_mae = ?,
			nome_pai = ?,
			cpf = ?,
			num_sus = ?,
			sexo_id = ?,
			cep = ?,
			endereco = ?,
			numero = ?,
			complemento = ?,
			bairro = ?,
			cidade = ?,
			uf = ?,
			updated_at = ?
		WHERE id = ?
	`

	patient.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, r.q(query),
		patient.FullName,
		patient.BirthDate,
		patient.MotherName,
		patient.FatherName,
		patient.CPF,
		patient.SUSNumber,
		patient.SexID,
		patient.PostalCode,
		patient.Street,
		patient.Number,
		patient.Complement,
		patient.Neighborhood,
		patient.City,
		patient.State,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return classify("patient", err)
	}
	return expectOne("patient", result)
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("patient_delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, r.q(`DELETE FROM pacientes WHERE id = ?`), id)
	if err != nil {
		return classify("patient", err)
	}
	return expectOne("patient", result)
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	patients := []*model.Patient{}
	query := `SELECT ` + patientColumns + ` FROM pacientes ORDER BY nome_completo`
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, classify("patient", err)
	}

	if err := r.attachSexes(ctx, patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// digitsOnly strips the separators CPF and SUS numbers are written with
func digitsOnly(column string) string {
	return "REPLACE(REPLACE(REPLACE(REPLACE(" + column + ", '.', ''), '-', ''), ' ', ''), '/', '')"
}

func (r *patientRepository) FindDuplicates(ctx context.Context, cpf, susNumber string, excludeID uuid.UUID) ([]*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + ` FROM pacientes
		WHERE (` + digitsOnly("cpf") + ` = ? OR ` + digitsOnly("num_sus") + ` = ?) AND id <> ?
	`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, r.q(query), cpf, susNumber, excludeID); err != nil {
		return nil, classify("patient", err)
	}
	return patients, nil
}

func (r *patientRepository) attachSexes(ctx context.Context, patients []*model.Patient) error {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, p := range patients {
		if !seen[p.SexID] {
			seen[p.SexID] = true
			ids = append(ids, p.SexID)
		}
	}

	sexes, err := r.sexes.byIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range patients {
		p.Sex = sexes[p.SexID]
	}
	return nil
}
