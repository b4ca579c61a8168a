package memory

import (
	"context"
	"testing"
	"time"

	"tarantula-log/internal/domain/covers"
	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/domain/specimens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecimenRepo_IdentityIsUniquePerOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewSpecimenRepo()

	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "a", OwnerUserID: "o1", Name: "Rosie", Species: "G. rosea"}))
	assert.ErrorIs(t, repo.Create(ctx, specimens.Specimen{ID: "b", OwnerUserID: "o1", Name: "Rosie", Species: "G. rosea"}), specimens.ErrAlreadyExists)

	// Otra especie u otro owner: identidad distinta
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "c", OwnerUserID: "o1", Name: "Rosie", Species: "B. hamorii"}))
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "d", OwnerUserID: "o2", Name: "Rosie", Species: "G. rosea"}))

	got, created, err := repo.EnsureByIdentity(ctx, specimens.Specimen{ID: "e", OwnerUserID: "o1", Name: "Rosie", Species: "G. rosea"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a", got.ID)
}

func TestSpecimenRepo_UpdateRejectsIdentityCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewSpecimenRepo()
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "a", OwnerUserID: "o1", Name: "Luna"}))
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "b", OwnerUserID: "o1", Name: "Apollo"}))

	b, err := repo.GetByID(ctx, "o1", "b")
	require.NoError(t, err)
	b.Name = "Luna"
	assert.ErrorIs(t, repo.Update(ctx, b), specimens.ErrAlreadyExists)

	b.Name = "Apollo II"
	require.NoError(t, repo.Update(ctx, b))
	_, created, err := repo.EnsureByIdentity(ctx, specimens.Specimen{ID: "c", OwnerUserID: "o1", Name: "Apollo"})
	require.NoError(t, err)
	assert.True(t, created, "old identity must be released after rename")
}

func TestSpecimenRepo_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewSpecimenRepo()
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "a", OwnerUserID: "o1", Name: "Luna"}))

	_, err := repo.GetByID(ctx, "o2", "a")
	assert.ErrorIs(t, err, specimens.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "o2", "a"), specimens.ErrNotFound)
}

func TestSpecimenRepo_ListByOwnerHidesArchived(t *testing.T) {
	ctx := context.Background()
	repo := NewSpecimenRepo()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "a", OwnerUserID: "o1", Name: "b-one", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, specimens.Specimen{ID: "b", OwnerUserID: "o1", Name: "A-two", Archived: true, ArchivedAt: &now, CreatedAt: now}))

	active, err := repo.ListByOwner(ctx, "o1", false)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := repo.ListByOwner(ctx, "o1", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A-two", all[0].Name)
}

func TestBreedingRepo_DetachChecksSlotsIndependently(t *testing.T) {
	ctx := context.Background()
	repo := NewBreedingRepo()
	require.NoError(t, repo.Create(ctx, records.BreedingEntry{
		ID: "b1", OwnerUserID: "o1",
		FemaleSpecimen: "Luna", MaleSpecimen: "Apollo",
		FemaleRef: records.Linked("luna-id"), MaleRef: records.Linked("apollo-id"),
		PairingDate: time.Now(),
	}))

	n, err := repo.DetachSpecimen(ctx, "o1", "luna-id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	e, err := repo.GetByID(ctx, "o1", "b1")
	require.NoError(t, err)
	assert.False(t, e.FemaleRef.IsLinked())
	assert.True(t, e.MaleRef.PointsTo("apollo-id"))
	assert.Equal(t, "Luna", e.FemaleSpecimen)
}

func TestMoltRepo_UnlinkedAndFindByName(t *testing.T) {
	ctx := context.Background()
	repo := NewMoltRepo()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.InsertMany(ctx, []records.MoltEntry{
		{ID: "1", OwnerUserID: "o1", Specimen: "Rosie", Date: day},
		{ID: "2", OwnerUserID: "o1", Specimen: "   ", Date: day.AddDate(0, 1, 0)},
		{ID: "3", OwnerUserID: "o1", Specimen: "ROSIE", SpecimenRef: records.Linked("x"), Date: day.AddDate(0, 2, 0)},
		{ID: "4", OwnerUserID: "o2", Specimen: "Rosie", Date: day},
	}))

	has, err := repo.HasUnlinked(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	unlinked, err := repo.ListUnlinked(ctx)
	require.NoError(t, err)
	assert.Len(t, unlinked, 2, "whitespace-only names are not pending")

	found, err := repo.FindByName(ctx, "o1", "rosie")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "3", found[0].ID, "newest first")

	// InsertMany es todo o nada
	err = repo.InsertMany(ctx, []records.MoltEntry{{ID: "5", OwnerUserID: "o1"}, {ID: "1", OwnerUserID: "o1"}})
	require.Error(t, err)
	_, err = repo.GetByID(ctx, "o1", "5")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestFindByName_IgnoresSurroundingWhitespace(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	molts := NewMoltRepo()
	require.NoError(t, molts.Create(ctx, records.MoltEntry{ID: "m1", OwnerUserID: "o1", Specimen: "Rosie ", Date: day}))
	require.NoError(t, molts.Create(ctx, records.MoltEntry{ID: "m2", OwnerUserID: "o1", Specimen: "Rosie Jr", Date: day}))
	found, err := molts.FindByName(ctx, "o1", "rosie")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "m1", found[0].ID)

	health := NewHealthRepo()
	require.NoError(t, health.Create(ctx, records.HealthEntry{ID: "h1", OwnerUserID: "o1", Specimen: " ROSIE", Date: day}))
	hs, err := health.FindByName(ctx, "o1", "Rosie")
	require.NoError(t, err)
	assert.Len(t, hs, 1)

	breeding := NewBreedingRepo()
	require.NoError(t, breeding.Create(ctx, records.BreedingEntry{ID: "b1", OwnerUserID: "o1", FemaleSpecimen: "Luna", MaleSpecimen: "rosie  ", PairingDate: day}))
	bs, err := breeding.FindByName(ctx, "o1", "Rosie")
	require.NoError(t, err)
	assert.Len(t, bs, 1)
}

func TestCoverRepo_FoldLookupAndUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewCoverRepo()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, covers.Cover{OwnerUserID: "o1", Key: "Rosie", ImageURL: "https://x/1.jpg", CreatedAt: created}))
	require.NoError(t, repo.Upsert(ctx, covers.Cover{OwnerUserID: "o1", Key: "Rosie", ImageURL: "https://x/2.jpg", CreatedAt: created.AddDate(1, 0, 0)}))

	c, err := repo.FindByKeyFold(ctx, "o1", " rosie ")
	require.NoError(t, err)
	assert.Equal(t, "https://x/2.jpg", c.ImageURL)
	assert.Equal(t, created, c.CreatedAt)

	_, err = repo.Get(ctx, "o1", "rosie")
	assert.ErrorIs(t, err, covers.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "o1", "Rosie"))
	assert.ErrorIs(t, repo.Delete(ctx, "o1", "Rosie"), covers.ErrNotFound)
}
