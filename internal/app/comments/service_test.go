package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffmates/internal/models"
)

type fakeNotifier struct {
	name, comment string
	calls         int
	err           error
}

func (f *fakeNotifier) NotifyComment(_ context.Context, name, comment string) error {
	f.calls++
	f.name, f.comment = name, comment
	return f.err
}

func TestSubmitTrimsAndNotifies(t *testing.T) {
	n := &fakeNotifier{}
	svc := New(n)

	err := svc.Submit(context.Background(), Comment{Name: "  Nicky ", Comment: " great site \n"})
	require.NoError(t, err)
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, "Nicky", n.name)
	assert.Equal(t, "great site", n.comment)
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	n := &fakeNotifier{}
	svc := New(n)

	err := svc.Submit(context.Background(), Comment{Name: "  ", Comment: ""})
	require.Error(t, err)
	require.True(t, models.IsValidation(err))

	fields := err.(*models.ValidationError).FieldErrors()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "comment")
	assert.Zero(t, n.calls)
}

func TestSubmitPropagatesDeliveryError(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	svc := New(n)

	err := svc.Submit(context.Background(), Comment{Name: "Ruairi", Comment: "hi"})
	assert.EqualError(t, err, "smtp down")
}
