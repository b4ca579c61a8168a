package records_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tarantula-log/internal/adapters/storage/memory"
	"tarantula-log/internal/domain/records"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver simula el servicio de ejemplares.
type fakeResolver struct {
	owned   map[string]string // id -> owner
	ensured map[string]string // owner::name::species -> id
	calls   int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{owned: map[string]string{}, ensured: map[string]string{}}
}

func (f *fakeResolver) Owns(ctx context.Context, ownerUserID, specimenID string) (bool, error) {
	return f.owned[specimenID] == ownerUserID, nil
}

func (f *fakeResolver) EnsureID(ctx context.Context, ownerUserID, name, species string) (string, error) {
	f.calls++
	k := ownerUserID + "::" + strings.TrimSpace(name) + "::" + strings.TrimSpace(species)
	if id, ok := f.ensured[k]; ok {
		return id, nil
	}
	id := uuid.NewString()
	f.ensured[k] = id
	f.owned[id] = ownerUserID
	return id, nil
}

func newService(res records.SpecimenResolver) *records.Service {
	return records.NewService(memory.NewMoltRepo(), memory.NewHealthRepo(), memory.NewBreedingRepo(), res)
}

var when = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func TestCreateMolt_FirstUseResolvesByName(t *testing.T) {
	ctx := context.Background()
	res := newFakeResolver()
	svc := newService(res)

	a, err := svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{Specimen: " Rosie ", Species: "G. rosea", Date: when})
	require.NoError(t, err)
	b, err := svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{Specimen: "Rosie", Species: "G. rosea", Date: when.AddDate(0, 2, 0)})
	require.NoError(t, err)

	assert.Equal(t, "Rosie", a.Specimen)
	assert.Equal(t, records.EntryTypeMolt, a.EntryType)
	idA, ok := a.SpecimenRef.ID()
	require.True(t, ok)
	assert.True(t, b.SpecimenRef.PointsTo(idA))
	assert.Len(t, res.ensured, 1)
}

func TestCreateMolt_WithoutNameStaysUnlinked(t *testing.T) {
	res := newFakeResolver()
	svc := newService(res)

	e, err := svc.CreateMolt(context.Background(), "owner-a", records.CreateMoltInput{Specimen: "  ", Date: when})
	require.NoError(t, err)
	assert.False(t, e.SpecimenRef.IsLinked())
	assert.Zero(t, res.calls)
}

func TestCreateMolt_ExplicitSpecimenID(t *testing.T) {
	ctx := context.Background()
	res := newFakeResolver()
	mine := uuid.NewString()
	theirs := uuid.NewString()
	res.owned[mine] = "owner-a"
	res.owned[theirs] = "owner-b"
	svc := newService(res)

	e, err := svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{SpecimenID: mine, Specimen: "Rosie", Date: when})
	require.NoError(t, err)
	assert.True(t, e.SpecimenRef.PointsTo(mine))
	assert.Zero(t, res.calls)

	_, err = svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{SpecimenID: theirs, Date: when})
	require.ErrorIs(t, err, records.ErrInvalidInput)

	_, err = svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{SpecimenID: "not-a-uuid", Date: when})
	var ve *records.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "specimen_id", ve.Field)
}

func TestCreateMolt_Validation(t *testing.T) {
	svc := newService(newFakeResolver())
	ctx := context.Background()

	cases := []struct {
		name  string
		owner string
		in    records.CreateMoltInput
		field string
	}{
		{"missing date", "owner-a", records.CreateMoltInput{}, "date"},
		{"bad entry type", "owner-a", records.CreateMoltInput{Date: when, EntryType: "shed"}, "entry_type"},
		{"bad stage", "owner-a", records.CreateMoltInput{Date: when, Stage: "Mid-molt"}, "stage"},
		{"bad outcome", "owner-a", records.CreateMoltInput{Date: when, FeedingOutcome: "Maybe"}, "feeding_outcome"},
		{"long name", "owner-a", records.CreateMoltInput{Date: when, Specimen: strings.Repeat("x", 161)}, "specimen"},
		{"long notes", "owner-a", records.CreateMoltInput{Date: when, Notes: strings.Repeat("x", 2001)}, "notes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMolt(ctx, tc.owner, tc.in)
			var ve *records.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.True(t, errors.Is(err, records.ErrInvalidInput))
		})
	}

	_, err := svc.CreateMolt(ctx, " ", records.CreateMoltInput{Date: when})
	assert.ErrorIs(t, err, records.ErrInvalidInput)
}

func TestMolts_ScopedByOwner(t *testing.T) {
	ctx := context.Background()
	svc := newService(newFakeResolver())

	e, err := svc.CreateMolt(ctx, "owner-a", records.CreateMoltInput{Specimen: "Rosie", Date: when})
	require.NoError(t, err)

	got, err := svc.GetMolt(ctx, "owner-a", e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = svc.GetMolt(ctx, "owner-b", e.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)

	list, err := svc.ListMolts(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateHealth_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(newFakeResolver())

	e, err := svc.CreateHealth(ctx, "owner-a", records.CreateHealthInput{Specimen: "Rosie", Date: when})
	require.NoError(t, err)
	assert.Equal(t, records.ConditionStable, e.Condition)
	assert.Equal(t, "g", e.WeightUnit)
	assert.True(t, e.SpecimenRef.IsLinked())

	neg := -1.0
	_, err = svc.CreateHealth(ctx, "owner-a", records.CreateHealthInput{Date: when, Weight: &neg})
	assert.ErrorIs(t, err, records.ErrInvalidInput)

	_, err = svc.CreateHealth(ctx, "owner-a", records.CreateHealthInput{Date: when, WeightUnit: "kg"})
	assert.ErrorIs(t, err, records.ErrInvalidInput)

	_, err = svc.CreateHealth(ctx, "owner-a", records.CreateHealthInput{Date: when, Condition: "Fine"})
	assert.ErrorIs(t, err, records.ErrInvalidInput)
}

func TestCreateBreeding_ResolvesBothSlots(t *testing.T) {
	ctx := context.Background()
	res := newFakeResolver()
	svc := newService(res)

	e, err := svc.CreateBreeding(ctx, "owner-a", records.CreateBreedingInput{
		FemaleSpecimen: "Luna", MaleSpecimen: "Apollo", Species: "B. hamorii", PairingDate: when,
	})
	require.NoError(t, err)
	assert.Equal(t, records.BreedingPlanned, e.Status)
	assert.Equal(t, records.EggSacNotLaid, e.EggSacStatus)

	femaleID, ok := e.FemaleRef.ID()
	require.True(t, ok)
	maleID, ok := e.MaleRef.ID()
	require.True(t, ok)
	assert.NotEqual(t, femaleID, maleID)

	solo, err := svc.CreateBreeding(ctx, "owner-a", records.CreateBreedingInput{FemaleSpecimen: "Luna", Species: "B. hamorii", PairingDate: when})
	require.NoError(t, err)
	assert.True(t, solo.FemaleRef.PointsTo(femaleID))
	assert.False(t, solo.MaleRef.IsLinked())
}

func TestCreateBreeding_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(newFakeResolver())
	negative := -3

	_, err := svc.CreateBreeding(ctx, "owner-a", records.CreateBreedingInput{})
	assert.ErrorIs(t, err, records.ErrInvalidInput)

	_, err = svc.CreateBreeding(ctx, "owner-a", records.CreateBreedingInput{PairingDate: when, Status: "Done"})
	assert.ErrorIs(t, err, records.ErrInvalidInput)

	_, err = svc.CreateBreeding(ctx, "owner-a", records.CreateBreedingInput{PairingDate: when, SlingCount: &negative})
	assert.ErrorIs(t, err, records.ErrInvalidInput)
}

func TestCloneFor_DropsReferenceAndSharesNoPointers(t *testing.T) {
	size := 4.5
	orig := records.MoltEntry{
		ID: "m1", OwnerUserID: "owner-a", Specimen: "Rosie",
		SpecimenRef: records.Linked("sp-1"), NewSize: &size, Date: when,
	}

	c := orig.CloneFor("owner-b", "m2", when.Add(time.Hour))
	assert.Equal(t, "owner-b", c.OwnerUserID)
	assert.Equal(t, "m2", c.ID)
	assert.Equal(t, "Rosie", c.Specimen)
	assert.False(t, c.SpecimenRef.IsLinked())
	require.NotNil(t, c.NewSize)

	*c.NewSize = 9
	assert.Equal(t, 4.5, *orig.NewSize)
}
