package covers_test

import (
	"context"
	"testing"

	"tarantula-log/internal/adapters/storage/memory"
	"tarantula-log/internal/domain/covers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_UpsertThenDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCoverRepo()
	svc := covers.NewService(repo)

	c, saved, err := svc.Set(ctx, "owner-a", " Rosie ", "https://img.example/rosie.jpg")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, "Rosie", c.Key)

	_, _, err = svc.Set(ctx, "owner-a", "Rosie", "https://img.example/rosie-2.jpg")
	require.NoError(t, err)

	got, err := repo.Get(ctx, "owner-a", "Rosie")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/rosie-2.jpg", got.ImageURL)

	_, saved, err = svc.Set(ctx, "owner-a", "Rosie", "   ")
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = repo.Get(ctx, "owner-a", "Rosie")
	assert.ErrorIs(t, err, covers.ErrNotFound)

	// Borrar algo que no existe no es error
	_, saved, err = svc.Set(ctx, "owner-a", "Ghost", "")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestSet_Validation(t *testing.T) {
	svc := covers.NewService(memory.NewCoverRepo())
	ctx := context.Background()

	_, _, err := svc.Set(ctx, "", "Rosie", "https://img.example/x.jpg")
	assert.ErrorIs(t, err, covers.ErrInvalidInput)

	_, _, err = svc.Set(ctx, "owner-a", "  ", "https://img.example/x.jpg")
	assert.ErrorIs(t, err, covers.ErrInvalidInput)

	_, _, err = svc.Set(ctx, "owner-a", "Rosie", "not a url")
	assert.ErrorIs(t, err, covers.ErrInvalidInput)
}

func TestListByOwner_AndByKey(t *testing.T) {
	ctx := context.Background()
	svc := covers.NewService(memory.NewCoverRepo())

	_, _, err := svc.Set(ctx, "owner-a", "Rosie", "https://img.example/r.jpg")
	require.NoError(t, err)
	_, _, err = svc.Set(ctx, "owner-a", "Luna", "https://img.example/l.jpg")
	require.NoError(t, err)
	_, _, err = svc.Set(ctx, "owner-b", "Rosie", "https://img.example/other.jpg")
	require.NoError(t, err)

	items, err := svc.ListByOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, items, 2)

	idx := covers.ByKey(items)
	assert.Equal(t, "https://img.example/r.jpg", idx["Rosie"])
	assert.Equal(t, "https://img.example/l.jpg", idx["Luna"])
}
