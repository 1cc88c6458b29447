package sqldb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/internal/model"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file::memory:?_foreign_keys=on",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func newBase(t *testing.T) (BaseRepository, *metrics.Metrics) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	return NewBaseRepository(newTestDB(t), m), m
}

func strPtr(s string) *string { return &s }

func createSex(t *testing.T, repo *sexRepository, name string) *model.Sex {
	t.Helper()
	sex := &model.Sex{Name: name}
	require.NoError(t, repo.Create(context.Background(), sex))
	return sex
}

func newPatient(sexID uuid.UUID, name, cpf, sus string) *model.Patient {
	return &model.Patient{
		FullName:     name,
		BirthDate:    model.NewDate(1990, 5, 17),
		MotherName:   "Maria da Silva",
		CPF:          cpf,
		SUSNumber:    sus,
		SexID:        sexID,
		PostalCode:   "01001000",
		Street:       "Praça da Sé",
		Number:       "100",
		Complement:   strPtr("apto 12"),
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "SP",
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	base, m := newBase(t)
	repo := NewUserRepository(base)

	hash := "$2a$10$hash"
	user := &model.User{Name: "Ana", Email: "a@b.com", PasswordHash: &hash}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, model.UserRoleUser, user.Role)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("user_create", "ok")))

	got, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.PasswordHash)
	assert.Equal(t, hash, *got.PasswordHash)
	assert.Nil(t, got.ExternalID)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Name: "Other", Email: "a@b.com"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("user_create", "error")))
	})

	t.Run("find by email or external id", func(t *testing.T) {
		sso := &model.User{Name: "Bruno", Email: "bruno@gov.br", ExternalID: strPtr("12345678909")}
		require.NoError(t, repo.Create(ctx, sso))

		found, err := repo.FindByEmailOrExternalID(ctx, "changed@gov.br", "12345678909")
		require.NoError(t, err)
		assert.Equal(t, sso.ID, found.ID)

		found, err = repo.FindByEmailOrExternalID(ctx, "a@b.com", "none")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.FindByEmailOrExternalID(ctx, "x@y.com", "none")
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run("update and delete", func(t *testing.T) {
		user.Name = "Ana Maria"
		require.NoError(t, repo.Update(ctx, user))

		got, err := repo.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", got.Name)

		require.NoError(t, repo.Delete(ctx, user.ID))
		_, err = repo.Get(ctx, user.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
		assert.True(t, apperrors.Is(repo.Delete(ctx, user.ID), apperrors.KindNotFound))
	})

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSexDeleteBlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	base, _ := newBase(t)
	sexes := &sexRepository{base}
	patients := NewPatientRepository(base)

	referenced := createSex(t, sexes, "Feminino")
	unreferenced := createSex(t, sexes, "Masculino")
	require.NoError(t, patients.Create(ctx, newPatient(referenced.ID, "Ana", "52998224725", "123456789012345")))

	err := sexes.Delete(ctx, referenced.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	_, err = sexes.Get(ctx, referenced.ID)
	assert.NoError(t, err)

	require.NoError(t, sexes.Delete(ctx, unreferenced.ID))
	_, err = sexes.Get(ctx, unreferenced.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestSexNameIsUnique(t *testing.T) {
	base, _ := newBase(t)
	sexes := &sexRepository{base}
	createSex(t, sexes, "Feminino")

	err := sexes.Create(context.Background(), &model.Sex{Name: "Feminino"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	list, err := sexes.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPatientRepository(t *testing.T) {
	ctx := context.Background()
	base, _ := newBase(t)
	sex := createSex(t, &sexRepository{base}, "Feminino")
	repo := NewPatientRepository(base)

	first := newPatient(sex.ID, "Zélia", "52998224725", "123456789012345")
	second := newPatient(sex.ID, "Ana", "11144477735", "987654321098765")
	second.FatherName = strPtr("João")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.FullName)
		assert.Equal(t, "1990-05-17", got.BirthDate.String())
		require.NotNil(t, got.FatherName)
		assert.Equal(t, "João", *got.FatherName)
		assert.Equal(t, "apto 12", *got.Complement)
		require.NotNil(t, got.Sex)
		assert.Equal(t, "Feminino", got.Sex.Name)
	})

	t.Run("list ordered by name with sex", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ana", list[0].FullName)
		assert.Equal(t, "Zélia", list[1].FullName)
		for _, p := range list {
			require.NotNil(t, p.Sex)
			assert.Equal(t, sex.ID, p.Sex.ID)
		}
	})

	t.Run("duplicate cpf violates constraint", func(t *testing.T) {
		err := repo.Create(ctx, newPatient(sex.ID, "Copy", "52998224725", "111111111111111"))
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("find duplicates excludes self", func(t *testing.T) {
		dups, err := repo.FindDuplicates(ctx, first.CPF, first.SUSNumber, first.ID)
		require.NoError(t, err)
		assert.Empty(t, dups)

		dups, err = repo.FindDuplicates(ctx, "00000000000", second.SUSNumber, uuid.Nil)
		require.NoError(t, err)
		require.Len(t, dups, 1)
		assert.Equal(t, second.ID, dups[0].ID)
	})

	t.Run("find duplicates ignores separators", func(t *testing.T) {
		formatted := newPatient(sex.ID, "Bia", "123.456.789-09", "898 0012 3456 7890")
		require.NoError(t, repo.Create(ctx, formatted))

		got, err := repo.Get(ctx, formatted.ID)
		require.NoError(t, err)
		assert.Equal(t, "123.456.789-09", got.CPF)
		assert.Equal(t, "898 0012 3456 7890", got.SUSNumber)

		dups, err := repo.FindDuplicates(ctx, "12345678909", "000000000000000", uuid.Nil)
		require.NoError(t, err)
		require.Len(t, dups, 1)
		assert.Equal(t, formatted.ID, dups[0].ID)

		dups, err = repo.FindDuplicates(ctx, "00000000000", "898001234567890", uuid.Nil)
		require.NoError(t, err)
		require.Len(t, dups, 1)
		assert.Equal(t, formatted.ID, dups[0].ID)
	})

	t.Run("unknown sex violates foreign key", func(t *testing.T) {
		err := repo.Create(ctx, newPatient(uuid.New(), "Orphan", "12345678909", "222222222222222"))
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("update and delete", func(t *testing.T) {
		first.City = "Campinas"
		require.NoError(t, repo.Update(ctx, first))
		got, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Campinas", got.City)

		require.NoError(t, repo.Delete(ctx, first.ID))
		assert.True(t, apperrors.Is(repo.Delete(ctx, first.ID), apperrors.KindNotFound))

		missing := newPatient(sex.ID, "Ghost", "12345678909", "333333333333333")
		missing.ID = uuid.New()
		assert.True(t, apperrors.Is(repo.Update(ctx, missing), apperrors.KindNotFound))
	})
}

func TestAddressRepository(t *testing.T) {
	ctx := context.Background()
	base, _ := newBase(t)
	repo := NewAddressRepository(base)

	address := &model.Address{PostalCode: "01001000", Street: "Praça da Sé", Number: "1", Neighborhood: "Sé", State: "SP"}
	require.NoError(t, repo.Create(ctx, address))

	address.Number = "2"
	require.NoError(t, repo.Update(ctx, address))

	got, err := repo.Get(ctx, address.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Number)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, address.ID))
	_, err = repo.Get(ctx, address.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify("x", nil))

	appErr := apperrors.Validation("bad", nil)
	assert.Same(t, appErr, classify("x", appErr))

	assert.True(t, apperrors.Is(classify("x", assert.AnError), apperrors.KindStore))
	assert.Equal(t, "usuarios.email", uniqueColumn("UNIQUE constraint failed: usuarios.email"))
}
