package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulnest/soulnest/backend/internal/model/user"
	journal "github.com/soulnest/soulnest/backend/internal/service/journal"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/internal/store/memory"
)

var createdAt = time.Date(2024, 2, 14, 20, 15, 0, 0, time.UTC)

func newService() *journal.Service {
	return journal.NewService(memory.New(), journal.WithClock(func() time.Time { return createdAt }))
}

func TestCreateThenGet(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "A", "B")
	require.NoError(t, err)
	require.False(t, id.IsZero())

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "B", got.Content)
	assert.True(t, createdAt.Equal(got.CreatedAt))
}

func TestGetMissing(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Get(ctx, store.NewID())
	assert.ErrorIs(t, err, journal.ErrJournalNotFound)

	_, err = svc.Get(ctx, "not-a-valid-id")
	assert.ErrorIs(t, err, journal.ErrJournalNotFound)
}

func TestUpdateKeepsOwnerAndCreationTime(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "old", "old body")
	require.NoError(t, err)

	status, err := svc.Update(ctx, id, "new", "new body")
	require.NoError(t, err)
	assert.Equal(t, journal.UpdatedStatus, status)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "new body", got.Content)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, createdAt.Equal(got.CreatedAt))
}

func TestUpdateWithSameValuesStillSucceeds(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "same", "same")
	require.NoError(t, err)

	_, err = svc.Update(ctx, id, "same", "same")
	assert.NoError(t, err)
}

func TestUpdateMissing(t *testing.T) {
	svc := newService()

	_, err := svc.Update(context.Background(), store.NewID(), "t", "c")
	assert.ErrorIs(t, err, journal.ErrJournalNotFound)
}

func TestDeleteTwice(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t", "c")
	require.NoError(t, err)

	status, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, journal.DeletedStatus, status)

	_, err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, journal.ErrJournalNotFound)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, journal.ErrJournalNotFound)
}

func TestListByUser(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "first", "x")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", "theirs", "x")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "", "default", "x")
	require.NoError(t, err)

	mine, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "first", mine[0].Title)

	defaults, err := svc.List(ctx, user.DefaultID)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, "default", defaults[0].Title)

	none, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
