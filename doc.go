// Package gxstream provides a line oriented byte stream media for Gurux
// components. The stream runs over a serial port or a TCP socket and
// implements the common IGXMedia contract: open/close a connection,
// send/receive data and emit events for received data, errors, tracing and
// state changes.
//
// Features
//
//   - Serial settings (port, baud rate, data bits, parity, stop bits) or a
//     TCP host:port endpoint.
//   - Line framing: CR and LF terminate a line, CRLF yields one line.
//   - Events: Byte, Line, Chunk, Received, Error, Trace and MediaState.
//   - Bounded open retry and reconnect when settings change.
//   - Tracing: configurable trace level for sent/received/error/info.
//
// # Construction
//
// Use NewGXSerialStream or NewGXNetStream, or NewGXStream with a Settings
// value.
//
//	media := gxstream.NewGXSerialStream("/dev/ttyUSB0", 9600, 8, gxcommon.ParityNone, gxcommon.StopBitsOne)
//	media.SetOnLineReceived(func(m gxcommon.IGXMedia, line string) {
//	    fmt.Println(line)
//	})
//	if err := media.Open(); err != nil {
//	    // handle open error
//	}
//	defer media.Close()
//
// # Polling
//
// The media never reads on its own. Call PollOnce repeatedly from one
// goroutine, or hand the media to a Driver:
//
//	d := gxstream.NewDriver(media, 10*time.Millisecond)
//	go d.Run(ctx)
//	err := d.Do(ctx, func(m *gxstream.GXStream) error {
//	    return m.WriteLine("ATZ")
//	})
//
// Event handlers run on the polling goroutine and may call back into the
// media, for example to close it.
//
// # Errors
//
// Errors are returned from calls and routed to the Error handler. Open
// failures wrap ErrOpenFailed and one of ErrEndpointUnavailable,
// ErrPermissionDenied or ErrAlreadyOpen.
//
// # Notes
//
// The zero value of GXStream is not ready for use; always construct via
// one of the New functions.
package gxstream
