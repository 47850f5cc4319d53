package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duabook/duabook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	fail atomic.Bool
}

func (f *fakePinger) Ping(ctx context.Context) error {
	if f.fail.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMonitor_DefaultsToOnline(t *testing.T) {
	m := NewMonitor(&fakePinger{}, time.Minute, testLogger())
	assert.True(t, m.IsOnline())
}

func TestSetOnline_NotifiesOnTransitionOnly(t *testing.T) {
	m := NewMonitor(&fakePinger{}, time.Minute, testLogger())
	ch := m.Subscribe()

	m.SetOnline(true) // no transition
	m.SetOnline(false)
	m.SetOnline(false) // no transition
	m.SetOnline(true)

	var got []bool
	for {
		select {
		case v := <-ch:
			got = append(got, v)
			continue
		default:
		}
		break
	}
	assert.Equal(t, []bool{false, true}, got)
}

func TestRun_ProbesAndFlipsState(t *testing.T) {
	p := &fakePinger{}
	p.fail.Store(true)

	m := NewMonitor(p, 5*time.Millisecond, testLogger())
	ch := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	select {
	case v := <-ch:
		require.False(t, v)
	case <-time.After(time.Second):
		t.Fatal("expected offline transition")
	}
	assert.False(t, m.IsOnline())

	p.fail.Store(false)

	select {
	case v := <-ch:
		require.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("expected online transition")
	}
	assert.True(t, m.IsOnline())
}
