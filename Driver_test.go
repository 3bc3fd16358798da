package gxstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/stretchr/testify/require"
)

func startDriver(t *testing.T, g *GXStream) (*Driver, context.CancelFunc, <-chan error) {
	t.Helper()
	d := NewDriver(g, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(cancel)
	return d, cancel, done
}

func TestDriver_PollsAndDoes(t *testing.T) {
	for _, mode := range []PollMode{PollModeEveryTick, PollModeOnDataAvailable} {
		t.Run(mode.String(), func(t *testing.T) {
			ft := &fakeTransport{echo: true}
			s := DefaultSettings()
			s.Endpoint = "fake0"
			s.PollMode = mode
			g := NewGXStream(s)
			g.SetTransportFactory(func(Settings) (Transport, error) { return ft, nil })
			lines := make(chan string, 4)
			g.SetOnLineReceived(func(m gxcommon.IGXMedia, line string) {
				lines <- line
			})
			require.NoError(t, g.Open())

			d, cancel, done := startDriver(t, g)
			require.Same(t, g, d.Media())
			ctx := context.Background()
			require.NoError(t, d.Do(ctx, func(m *GXStream) error {
				return m.WriteLine("ping")
			}))
			select {
			case line := <-lines:
				require.Equal(t, "ping", line)
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for line")
			}

			errBoom := errors.New("boom")
			require.ErrorIs(t, d.Do(ctx, func(m *GXStream) error { return errBoom }), errBoom)

			cancel()
			select {
			case err := <-done:
				require.ErrorIs(t, err, context.Canceled)
			case <-time.After(time.Second):
				t.Fatal("driver did not stop")
			}
			require.ErrorIs(t, d.Do(ctx, func(m *GXStream) error { return nil }), ErrDriverStopped)
		})
	}
}

func TestDriver_DoHonorsContext(t *testing.T) {
	d := NewDriver(NewGXStream(DefaultSettings()), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Run was never started.
	require.ErrorIs(t, d.Do(ctx, func(m *GXStream) error { return nil }), context.DeadlineExceeded)
}

func TestDriver_ClosedMediaKeepsRunning(t *testing.T) {
	g := NewGXStream(DefaultSettings())
	d, cancel, done := startDriver(t, g)
	require.NoError(t, d.Do(context.Background(), func(m *GXStream) error {
		if m.IsOpen() {
			return errors.New("media is open")
		}
		return nil
	}))
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
