//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tarantula-log/internal/config"
	"tarantula-log/internal/domain/migration"
	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/domain/specimens"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupDB levanta un postgres compartido por toda la corrida y aplica las migraciones embebidas.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("setup test db: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DatabaseConfig{DSN: sharedDSN, MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			"TRUNCATE breeding_entries, health_entries, molt_entries, specimen_covers, specimens")
		pool.Close()
	})
	return pool
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "tarantula",
				"POSTGRES_PASSWORD": "tarantula",
				"POSTGRES_DB":       "tarantula",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	dsn := fmt.Sprintf("postgres://tarantula:tarantula@%s:%s/tarantula?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, config.DatabaseConfig{DSN: dsn, MaxConns: 2})
	if err != nil {
		return "", err
	}
	defer pool.Close()

	db := OpenDB(pool)
	defer db.Close()
	if _, err := Migrate(ctx, db); err != nil {
		return "", err
	}
	return dsn, nil
}

func TestIntegration_MigrationLinksRecords(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	st := NewStores(pool)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.Molts.InsertMany(ctx, []records.MoltEntry{
		{ID: uuid.NewString(), OwnerUserID: "u1", Specimen: "Rosie", Species: "G. rosea", Date: now, EntryType: records.EntryTypeMolt, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), OwnerUserID: "u1", Specimen: " Rosie ", Species: "G. rosea", Date: now.AddDate(0, 6, 0), EntryType: records.EntryTypeMolt, CreatedAt: now, UpdatedAt: now},
	}))
	require.NoError(t, st.Breeding.Create(ctx, records.BreedingEntry{
		ID: uuid.NewString(), OwnerUserID: "u1", FemaleSpecimen: "Rosie", MaleSpecimen: "Apollo", Species: "G. rosea",
		PairingDate: now, Status: records.BreedingPlanned, EggSacStatus: records.EggSacNotLaid, CreatedAt: now, UpdatedAt: now,
	}))

	rep, err := migration.NewEngine(st, nil, nil, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.SpecimensCreated)
	assert.Equal(t, 2, rep.MoltLinked)
	assert.Equal(t, 1, rep.BreedingLinked)

	has, err := st.Molts.HasUnlinked(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	// segundo proceso: nada que hacer
	rep, err = migration.NewEngine(st, nil, nil, nil).Run(ctx)
	require.NoError(t, err)
	assert.True(t, rep.NoWork)
}

func TestIntegration_EnsureByIdentityIsRaceSafe(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := NewSpecimensRepo(pool)
	now := time.Now().UTC()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, _, err := repo.EnsureByIdentity(ctx, specimens.Specimen{
				ID: uuid.NewString(), OwnerUserID: "u1", Name: "Rosie", Species: "G. rosea", CreatedAt: now, UpdatedAt: now,
			})
			assert.NoError(t, err)
			ids[i] = got.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	all, err := repo.ListByOwner(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIntegration_DeleteSpecimenNullsReferences(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	st := NewStores(pool)
	now := time.Now().UTC()
	sp := specimens.Specimen{ID: uuid.NewString(), OwnerUserID: "u1", Name: "Luna", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Specimens.Create(ctx, sp))

	moltID := uuid.NewString()
	require.NoError(t, st.Molts.Create(ctx, records.MoltEntry{
		ID: moltID, OwnerUserID: "u1", Specimen: "Luna", SpecimenRef: records.Linked(sp.ID),
		Date: now, EntryType: records.EntryTypeMolt, CreatedAt: now, UpdatedAt: now,
	}))

	n, err := st.Molts.DetachSpecimen(ctx, "u1", sp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, st.Specimens.Delete(ctx, "u1", sp.ID))

	got, err := st.Molts.GetByID(ctx, "u1", moltID)
	require.NoError(t, err)
	assert.False(t, got.SpecimenRef.IsLinked())
	assert.Equal(t, "Luna", got.Specimen)
}
