package boltdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Pallinder/go-randomdata"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.llib.dev/restassured/adapter/boltdb"
	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/crudcontract"
)

type Note struct {
	ID     int64
	Text   string
	Labels []string
}

func ExampleOpen() {
	path := filepath.Join(os.TempDir(), uuid.NewV4().String())
	defer os.Remove(path)
	db, err := boltdb.Open(path)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	repo := boltdb.NewRepository[Note](db, "notes", nil)
	_ = repo.Create(context.Background(), &Note{Text: "hello"})
}

func OpenTestDB(tb testing.TB) *boltdb.DB {
	path := filepath.Join(tb.TempDir(), uuid.NewV4().String())
	db, err := boltdb.Open(path)
	require.NoError(tb, err)
	tb.Cleanup(func() { assert.NoError(tb, db.Close()) })
	return db
}

func makeNote(tb testing.TB) Note {
	return Note{
		Text:   randomdata.Paragraph(),
		Labels: []string{randomdata.SillyName(), randomdata.SillyName()},
	}
}

func TestRepository(t *testing.T) {
	crudcontract.Repository[Note, int64](func(tb testing.TB) crud.Repository[Note, int64] {
		return boltdb.NewRepository[Note](OpenTestDB(tb), "", nil)
	}, crudcontract.Config[Note, int64]{
		MakeEntity: makeNote,
	}).Test(t)
}

func TestRepository_Create_idFromSequence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := boltdb.NewRepository[Note](OpenTestDB(t), "notes", nil)

	first, second := makeNote(t), makeNote(t)
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []Note{first, second}, all)
}

func TestRepository_Create_alreadyExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := boltdb.NewRepository[Note](OpenTestDB(t), "notes", nil)

	n := makeNote(t)
	require.NoError(t, repo.Create(ctx, &n))
	require.ErrorIs(t, repo.Create(ctx, &n), crud.ErrAlreadyExists)
}

func TestRepository_emptyBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := boltdb.NewRepository[Note](OpenTestDB(t), "notes", nil)

	_, found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.ErrorIs(t, repo.DeleteByID(ctx, 1), crud.ErrNotFound)
}

func TestRepository_persistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), uuid.NewV4().String())

	db, err := boltdb.Open(path)
	require.NoError(t, err)
	n := makeNote(t)
	require.NoError(t, boltdb.NewRepository[Note](db, "notes", nil).Create(ctx, &n))
	require.NoError(t, db.Close())

	db, err = boltdb.Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, found, err := boltdb.NewRepository[Note](db, "notes", nil).FindByID(ctx, n.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, n, got)
}
