package gxstream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Gurux/gxcommon-go"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a scripted in-memory Transport.
type fakeTransport struct {
	settings Settings
	open     bool
	opens    int
	// failOpens is the number of open calls that fail before one succeeds.
	// A negative value fails every call.
	failOpens int
	in        []byte
	// readErr is returned by ReadByte once in is drained.
	readErr  error
	availErr error
	writeErr error
	echo     bool
	written  bytes.Buffer
	discards int
	drains   int
}

func (f *fakeTransport) Open() error {
	f.opens++
	if f.failOpens < 0 || f.opens <= f.failOpens {
		return ErrEndpointUnavailable
	}
	f.open = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.open = false
	return nil
}

func (f *fakeTransport) BytesAvailable() (int, error) {
	if !f.open {
		return 0, ErrNotOpen
	}
	if f.availErr != nil {
		return 0, f.availErr
	}
	if len(f.in) == 0 && f.readErr != nil {
		return 1, nil
	}
	return len(f.in), nil
}

func (f *fakeTransport) ReadByte() (byte, error) {
	if len(f.in) == 0 {
		if f.readErr != nil {
			err := f.readErr
			f.readErr = nil
			return 0, err
		}
		return 0, ErrReadTimeout
	}
	c := f.in[0]
	f.in = f.in[1:]
	return c, nil
}

func (f *fakeTransport) Write(data []byte) error {
	if !f.open {
		return ErrNotOpen
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written.Write(data)
	if f.echo {
		f.in = append(f.in, data...)
	}
	return nil
}

func (f *fakeTransport) DiscardBuffers() error {
	f.discards++
	f.in = nil
	return nil
}

func (f *fakeTransport) Drain() error {
	f.drains++
	return nil
}

// recorder collects the notifications of a GXStream.
type recorder struct {
	states []gxcommon.MediaState
	errs   []error
	events []string
	lines  []string
	chunks []string
	recv   int
}

func (r *recorder) count(state gxcommon.MediaState) int {
	n := 0
	for _, s := range r.states {
		if s == state {
			n++
		}
	}
	return n
}

func newTestStream(t *testing.T, ft *fakeTransport) (*GXStream, *recorder) {
	t.Helper()
	s := DefaultSettings()
	s.Endpoint = "fake0"
	g := NewGXStream(s)
	g.SetTransportFactory(func(settings Settings) (Transport, error) {
		ft.settings = settings
		return ft, nil
	})
	r := &recorder{}
	g.SetOnMediaStateChange(func(m gxcommon.IGXMedia, e gxcommon.MediaStateEventArgs) {
		r.states = append(r.states, e.State())
	})
	g.SetOnError(func(m gxcommon.IGXMedia, err error) {
		r.errs = append(r.errs, err)
	})
	g.SetOnByteReceived(func(m gxcommon.IGXMedia, value byte) {
		r.events = append(r.events, "b:"+string(rune(value)))
	})
	g.SetOnLineReceived(func(m gxcommon.IGXMedia, line string) {
		r.events = append(r.events, "l:"+line)
		r.lines = append(r.lines, line)
	})
	g.SetOnChunkReceived(func(m gxcommon.IGXMedia, chunk string) {
		r.chunks = append(r.chunks, chunk)
	})
	g.SetOnReceived(func(m gxcommon.IGXMedia, e gxcommon.ReceiveEventArgs) {
		r.recv++
	})
	return g, r
}

func TestGXStream_OpenClose(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.Equal(t, gxcommon.MediaStateClosed, g.State())
	require.False(t, g.IsOpen())

	require.NoError(t, g.Open())
	require.True(t, g.IsOpen())
	require.Equal(t, "fake0", ft.settings.Endpoint)

	// Opening an open media does nothing.
	require.NoError(t, g.Open())
	require.Equal(t, 1, ft.opens)

	require.NoError(t, g.Close())
	require.False(t, ft.open)
	require.Equal(t, []gxcommon.MediaState{
		gxcommon.MediaStateOpening,
		gxcommon.MediaStateOpen,
		gxcommon.MediaStateClosing,
		gxcommon.MediaStateClosed,
	}, r.states)
}

func TestGXStream_CloseTwiceNotifiesOnce(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	require.Equal(t, 1, r.count(gxcommon.MediaStateClosed))
	require.Empty(t, r.errs)
}

func TestGXStream_CloseWhenNeverOpened(t *testing.T) {
	g, r := newTestStream(t, &fakeTransport{})
	require.NoError(t, g.Close())
	require.Empty(t, r.states)
}

func TestGXStream_BoundedRetry(t *testing.T) {
	ft := &fakeTransport{failOpens: -1}
	g, r := newTestStream(t, ft)
	g.SetMaxOpenAttempts(3)

	err := g.Open()
	require.ErrorIs(t, err, ErrOpenFailed)
	require.ErrorIs(t, err, ErrEndpointUnavailable)
	require.Equal(t, 3, ft.opens)
	require.Len(t, r.errs, 1)
	require.ErrorIs(t, r.errs[0], ErrOpenFailed)
	require.Equal(t, gxcommon.MediaStateClosed, g.State())
	require.Equal(t, 0, g.OpenAttempts())
	require.Zero(t, r.count(gxcommon.MediaStateOpen))

	// The media stays usable and counts from zero again.
	require.ErrorIs(t, g.Open(), ErrOpenFailed)
	require.Equal(t, 6, ft.opens)
	require.Len(t, r.errs, 2)
}

func TestGXStream_RetrySucceeds(t *testing.T) {
	ft := &fakeTransport{failOpens: 2}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	require.Equal(t, 3, ft.opens)
	require.Equal(t, 0, g.OpenAttempts())
	require.Equal(t, 1, r.count(gxcommon.MediaStateOpen))
	require.Empty(t, r.errs)
}

func TestGXStream_OpenValidates(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.SetEndpoint(""))
	require.Error(t, g.Open())
	require.Zero(t, ft.opens)
	require.Len(t, r.errs, 1)
	require.Empty(t, r.states)
}

func TestGXStream_WriteLineRoundTrip(t *testing.T) {
	ft := &fakeTransport{echo: true}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())

	require.NoError(t, g.WriteLine("hello"))
	require.Equal(t, "hello\n", ft.written.String())
	require.Equal(t, uint64(6), g.GetBytesSent())

	require.Equal(t, 6, g.PollOnce())
	require.Equal(t, []string{"hello"}, r.lines)
	require.Equal(t, uint64(6), g.GetBytesReceived())

	g.SetNewLine("\r\n")
	require.NoError(t, g.WriteLine("again"))
	g.PollOnce()
	require.Equal(t, []string{"hello", "again"}, r.lines)
}

func TestGXStream_ChunkOncePerPoll(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())

	require.Equal(t, 0, g.PollOnce())
	require.Empty(t, r.chunks)
	require.Zero(t, r.recv)

	ft.in = []byte("A\r\nB")
	require.Equal(t, 4, g.PollOnce())
	require.Equal(t, []string{"A\r\nB"}, r.chunks)
	require.Equal(t, 1, r.recv)
	require.Equal(t, "B", g.Pending())

	require.Equal(t, 0, g.PollOnce())
	require.Len(t, r.chunks, 1)
}

func TestGXStream_EventOrder(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	ft.in = []byte("A\nB\r\n")
	g.PollOnce()
	require.Equal(t, []string{"b:A", "b:\n", "l:A", "b:B", "b:\r", "l:B", "b:\n"}, r.events)
}

func TestGXStream_CloseDuringDispatch(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	g.SetOnLineReceived(func(m gxcommon.IGXMedia, line string) {
		r.lines = append(r.lines, line)
		require.NoError(t, m.Close())
	})
	require.NoError(t, g.Open())
	ft.in = []byte("A\nB\nC")
	g.PollOnce()
	require.Equal(t, []string{"A"}, r.lines)
	require.Empty(t, r.chunks)
	require.Empty(t, g.Pending())
	require.Equal(t, gxcommon.MediaStateClosed, g.State())
	require.Equal(t, 1, r.count(gxcommon.MediaStateClosed))
}

func TestGXStream_CloseResetsLineBuffer(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	ft.in = []byte("partial")
	g.PollOnce()
	require.Equal(t, "partial", g.Pending())
	require.NoError(t, g.Cycle())
	require.Empty(t, g.Pending())
	ft.in = []byte("\nnext\n")
	g.PollOnce()
	require.Equal(t, []string{"next"}, r.lines)
}

func TestGXStream_ReadTimeoutKeepsPolling(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	ft.in = []byte("A\n")
	ft.readErr = ErrReadTimeout
	require.Equal(t, 2, g.PollOnce())
	require.Equal(t, []string{"A"}, r.lines)
	require.Len(t, r.errs, 1)
	require.ErrorIs(t, r.errs[0], ErrReadTimeout)
	require.True(t, g.IsOpen())

	ft.in = []byte("B\n")
	g.PollOnce()
	require.Equal(t, []string{"A", "B"}, r.lines)
}

func TestGXStream_PeerClosedClosesMedia(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())
	ft.availErr = gxcommon.ErrConnectionClosed
	require.Equal(t, 0, g.PollOnce())
	require.False(t, g.IsOpen())
	require.Equal(t, 1, r.count(gxcommon.MediaStateClosed))
	require.Len(t, r.errs, 1)

	// Polling a closed media does nothing.
	require.Equal(t, 0, g.PollOnce())
	require.Len(t, r.errs, 1)
}

func TestGXStream_WriteErrors(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.ErrorIs(t, g.Write([]byte("x")), ErrNotOpen)

	require.NoError(t, g.Open())
	ft.writeErr = ErrWriteTimeout
	require.ErrorIs(t, g.WriteString("x"), ErrWriteTimeout)
	require.Len(t, r.errs, 1)
	require.True(t, g.IsOpen())
	require.Zero(t, g.GetBytesSent())
}

func TestGXStream_Send(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newTestStream(t, ft)
	var m gxcommon.IGXMedia = g
	require.NoError(t, m.Open())
	require.NoError(t, m.Send([]byte{1, 2, 3}, ""))
	require.Equal(t, []byte{1, 2, 3}, ft.written.Bytes())
	m.ResetByteCounters()
	require.Zero(t, m.GetBytesSent())
}

func TestGXStream_Flush(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newTestStream(t, ft)
	require.NoError(t, g.Flush())
	require.Zero(t, ft.discards)

	require.NoError(t, g.Open())
	ft.in = []byte("stale")
	require.NoError(t, g.Flush())
	require.Equal(t, 1, ft.discards)
	require.Equal(t, 1, ft.drains)
	require.Equal(t, 0, g.PollOnce())
}

func TestGXStream_AutoCycle(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())

	require.NoError(t, g.SetBaudRate(gxcommon.BaudRate(115200)))
	require.Equal(t, 2, ft.opens)
	require.Equal(t, gxcommon.BaudRate(115200), ft.settings.BaudRate)
	require.Equal(t, 2, r.count(gxcommon.MediaStateOpen))
	require.True(t, g.IsOpen())
}

func TestGXStream_StagedSettings(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newTestStream(t, ft)
	g.SetAutoCycle(false)
	require.NoError(t, g.Open())

	require.NoError(t, g.SetEndpoint("fake1"))
	require.NoError(t, g.SetDataBits(7))
	require.Equal(t, 1, ft.opens)
	require.True(t, g.SettingsStaged())
	require.Equal(t, "fake0", ft.settings.Endpoint)

	require.NoError(t, g.Cycle())
	require.Equal(t, 2, ft.opens)
	require.False(t, g.SettingsStaged())
	require.Equal(t, "fake1", ft.settings.Endpoint)
	require.Equal(t, 7, ft.settings.DataBits)
}

func TestGXStream_SettingsWhileClosed(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.SetParity(gxcommon.ParityEven))
	require.Zero(t, ft.opens)
	require.Empty(t, r.states)
	require.False(t, g.SettingsStaged())
}

func TestGXStream_SynchronousReceive(t *testing.T) {
	ft := &fakeTransport{}
	g, r := newTestStream(t, ft)
	require.NoError(t, g.Open())

	func() {
		defer g.GetSynchronous()()
		require.True(t, g.IsSynchronous())
		ft.in = []byte("OK\nrest")
		g.PollOnce()
		p := gxcommon.NewReceiveParameters[string]()
		p.EOP = "\n"
		p.WaitTime = 100
		ret, err := g.Receive(p)
		require.NoError(t, err)
		require.True(t, ret)
		require.Equal(t, "OK\n", p.Reply)
	}()
	require.False(t, g.IsSynchronous())
	require.Zero(t, r.recv)
	require.Equal(t, []string{"OK"}, r.lines)

	g.ResetSynchronousBuffer()
	require.Zero(t, g.received.Size())
}

func TestGXStream_ReceiveNeedsCountOrEop(t *testing.T) {
	g, _ := newTestStream(t, &fakeTransport{})
	p := gxcommon.NewReceiveParameters[string]()
	_, err := g.Receive(p)
	require.Error(t, err)
}

func TestGXStream_Trace(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newTestStream(t, ft)
	traces := 0
	g.SetOnTrace(func(m gxcommon.IGXMedia, e gxcommon.TraceEventArgs) {
		traces++
	})
	// Off by default.
	require.NoError(t, g.Open())
	require.NoError(t, g.Close())
	require.Zero(t, traces)

	// Error level hides info and data traces but shows errors.
	require.NoError(t, g.SetTrace(gxcommon.TraceLevelError))
	require.NoError(t, g.Open())
	require.NoError(t, g.WriteLine("x"))
	require.Zero(t, traces)
	ft.writeErr = ErrWriteTimeout
	require.Error(t, g.WriteLine("x"))
	require.Equal(t, 1, traces)
	ft.writeErr = nil
	require.NoError(t, g.Close())
	require.Equal(t, 1, traces)

	// Info level shows opening, opened, closing and closed.
	traces = 0
	require.NoError(t, g.SetTrace(gxcommon.TraceLevelInfo))
	require.NoError(t, g.Open())
	require.NoError(t, g.WriteLine("x"))
	require.NoError(t, g.Close())
	require.Equal(t, 4, traces)

	// Verbose adds sent data.
	traces = 0
	require.NoError(t, g.SetTrace(gxcommon.TraceLevelVerbose))
	require.Equal(t, gxcommon.TraceLevelVerbose, g.GetTrace())
	require.NoError(t, g.Open())
	require.NoError(t, g.WriteLine("x"))
	require.NoError(t, g.Close())
	require.Equal(t, 5, traces)
}

func TestTraceLevelOf(t *testing.T) {
	require.Equal(t, gxcommon.TraceLevelError, traceLevelOf(gxcommon.TraceTypesError))
	require.Equal(t, gxcommon.TraceLevelWarning, traceLevelOf(gxcommon.TraceTypesWarning))
	require.Equal(t, gxcommon.TraceLevelInfo, traceLevelOf(gxcommon.TraceTypesInfo))
	require.Equal(t, gxcommon.TraceLevelVerbose, traceLevelOf(gxcommon.TraceTypesSent))
	require.Equal(t, gxcommon.TraceLevelVerbose, traceLevelOf(gxcommon.TraceTypesReceived))
}

func TestGXStream_LastLine(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newTestStream(t, ft)
	require.Empty(t, g.LastLine())
	require.NoError(t, g.Open())
	ft.in = []byte("first
second
thi")
	g.PollOnce()
	require.Equal(t, "second", g.LastLine())
	require.Equal(t, "thi", g.Pending())
	require.NoError(t, g.Close())
	require.Equal(t, "second", g.LastLine())
}

func TestGXStream_Copy(t *testing.T) {
	src := NewGXNetStream("localhost", 4059)
	src.SetEop(byte(0x7E))
	dst := NewGXStream(DefaultSettings())
	require.NoError(t, src.Copy(dst))
	require.Equal(t, "localhost:4059", dst.GetName())
	require.Equal(t, TransportTypeTCP, dst.TransportType())
	require.Equal(t, "Net", dst.GetMediaType())
	require.Equal(t, byte(0x7E), dst.GetEop())
}

func TestGXStream_HandlersMayBeNil(t *testing.T) {
	ft := &fakeTransport{}
	s := DefaultSettings()
	s.Endpoint = "fake0"
	g := NewGXStream(s)
	g.SetTransportFactory(func(Settings) (Transport, error) { return ft, nil })
	require.NoError(t, g.Open())
	ft.in = []byte("x\n")
	require.Equal(t, 2, g.PollOnce())
	require.NoError(t, g.Close())
}

func TestGXStream_FactoryError(t *testing.T) {
	g, r := newTestStream(t, &fakeTransport{})
	calls := 0
	g.SetTransportFactory(func(Settings) (Transport, error) {
		calls++
		return nil, errors.New("no transport")
	})
	g.SetMaxOpenAttempts(2)
	require.ErrorIs(t, g.Open(), ErrOpenFailed)
	require.Equal(t, 2, calls)
	require.Len(t, r.errs, 1)
}
