package submitter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"little_lemon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name string
		res  models.Reservation
		want bool
	}{
		{
			name: "valid",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: 4, Occasion: "Anniversary"},
			want: true,
		},
		{
			name: "occasion is not checked",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: 1},
			want: true,
		},
		{
			name: "upper bound",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: 10},
			want: true,
		},
		{
			name: "missing date",
			res:  models.Reservation{Time: "19:00", Guests: 4},
		},
		{
			name: "missing time",
			res:  models.Reservation{Date: "2026-01-15", Guests: 4},
		},
		{
			name: "missing guests",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00"},
		},
		{
			name: "too many guests",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: 11},
		},
		{
			name: "negative guests",
			res:  models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: -2},
		},
	}

	s := New(discard())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Submit(context.Background(), tt.res)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingPublisher struct {
	sent []models.Notification
	err  error
}

func (p *recordingPublisher) PublishReservation(_ context.Context, n models.Notification) error {
	p.sent = append(p.sent, n)
	return p.err
}

type stubInner struct {
	ok  bool
	err error
}

func (s stubInner) Submit(context.Context, models.Reservation) (bool, error) {
	return s.ok, s.err
}

func TestNotifyingPublishesAcceptedReservations(t *testing.T) {
	pub := &recordingPublisher{}
	n := WithNotifications(New(discard()), pub, discard())

	ok, err := n.Submit(context.Background(), models.Reservation{
		Date: "2026-01-15", Time: "19:00", Guests: 4, Occasion: "Anniversary",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "2026-01-15", pub.sent[0].Date)
	assert.Equal(t, "19:00", pub.sent[0].Time)
	assert.Equal(t, 4, pub.sent[0].Guests)
	assert.Equal(t, "Anniversary", pub.sent[0].Occasion)
	assert.NotEmpty(t, pub.sent[0].Reference)
	assert.False(t, pub.sent[0].SubmittedAt.IsZero())
}

func TestNotifyingSkipsRejectedReservations(t *testing.T) {
	pub := &recordingPublisher{}
	n := WithNotifications(New(discard()), pub, discard())

	ok, err := n.Submit(context.Background(), models.Reservation{Date: "2026-01-15"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, pub.sent)
}

func TestNotifyingPassesInnerErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	pub := &recordingPublisher{}
	n := WithNotifications(stubInner{err: boom}, pub, discard())

	ok, err := n.Submit(context.Background(), models.Reservation{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Empty(t, pub.sent)
}

func TestNotifyingIgnoresPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := WithNotifications(stubInner{ok: true}, pub, discard())

	ok, err := n.Submit(context.Background(), models.Reservation{Date: "2026-01-15", Time: "19:00", Guests: 2})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, pub.sent, 1)
}
