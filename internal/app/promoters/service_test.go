package promoters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffmates/internal/models"
)

type fakeStore struct{ calls int }

func (f *fakeStore) ListPromoters(context.Context) ([]models.Promoter, error) {
	f.calls++
	return []models.Promoter{{ID: 1, CommonName: "Bill Graham"}}, nil
}

func TestListSlowWaits(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, 20*time.Millisecond)

	start := time.Now()
	got, err := svc.ListSlow(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Len(t, got, 1)
}

func TestListSlowCanceled(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.ListSlow(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, st.calls)
}

func TestListIsImmediate(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, time.Hour)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bill Graham", got[0].CommonName)
}
