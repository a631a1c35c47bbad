package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminderStub struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (r *reminderStub) SendExpiryReminders(_ context.Context, days int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, days)
	return 3, r.err
}

func (r *reminderStub) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestScheduler_EjecutaRecordatorios(t *testing.T) {
	stub := &reminderStub{}
	s := NewScheduler(stub, "* * * * * *", 30, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	require.Eventually(t, func() bool { return stub.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	stub.mu.Lock()
	assert.Equal(t, 30, stub.calls[0])
	stub.mu.Unlock()
}

func TestScheduler_ErrorNoDetiene(t *testing.T) {
	stub := &reminderStub{err: errors.New("db down")}
	s := NewScheduler(stub, "* * * * * *", 7, zerolog.Nop())

	s.documentExpiry()

	assert.Equal(t, 1, stub.count())
}

func TestScheduler_SpecInvalida(t *testing.T) {
	s := NewScheduler(&reminderStub{}, "no es cron", 30, zerolog.Nop())

	assert.Error(t, s.Start())
}

func TestScheduler_SinReminderNoProgramaNada(t *testing.T) {
	s := NewScheduler(nil, "* * * * * *", 30, zerolog.Nop())

	assert.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
}
