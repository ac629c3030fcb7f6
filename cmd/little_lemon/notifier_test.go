package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, body})
	return nil
}

func TestNotifySendsToAdministrator(t *testing.T) {
	s := &fakeSender{}
	handle := notify(slog.New(slog.NewTextHandler(io.Discard, nil)), s, "admin@example.com")

	err := handle([]byte(`{"reference":"ref-1","date":"2026-01-15","time":"19:00","guests":4,"occasion":"Birthday","submitted_at":"2026-01-10T18:00:00Z"}`))

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "admin@example.com", s.sent[0].to)
	assert.Equal(t, "New reservation: 2026-01-15 at 19:00", s.sent[0].subject)
	assert.Contains(t, s.sent[0].body, "Reference: ref-1")
}

func TestNotifyDropsMalformedMessages(t *testing.T) {
	s := &fakeSender{}
	handle := notify(slog.New(slog.NewTextHandler(io.Discard, nil)), s, "admin@example.com")

	assert.NoError(t, handle([]byte("not json")))
	assert.Empty(t, s.sent)
}

func TestNotifyReturnsSendErrors(t *testing.T) {
	s := &fakeSender{err: errors.New("smtp down")}
	handle := notify(slog.New(slog.NewTextHandler(io.Discard, nil)), s, "admin@example.com")

	assert.Error(t, handle([]byte(`{"reference":"ref-1"}`)))
}
