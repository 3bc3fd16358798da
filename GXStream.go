package gxstream

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ByteEventHandler is called for every received byte.
type ByteEventHandler func(m gxcommon.IGXMedia, value byte)

// LineEventHandler is called for every completed line.
type LineEventHandler func(m gxcommon.IGXMedia, line string)

// ChunkEventHandler is called once for every poll step that read data.
type ChunkEventHandler func(m gxcommon.IGXMedia, chunk string)

// GXStream is a line oriented byte stream media over a serial port or a
// TCP socket.
//
// GXStream does not start goroutines. Somebody has to call PollOnce
// repeatedly (see Driver), and all calls except handler registration must
// come from that same goroutine.
type GXStream struct {
	settings Settings
	eop      any
	// The trace level specifies which types of trace messages are emitted.
	traceLevel gxcommon.TraceLevel

	// mu guards the handlers and the synchronous flag.
	mu          sync.RWMutex
	synchronous bool

	state        gxcommon.MediaState
	transport    Transport
	newTransport TransportFactory
	framer       LineFramer
	lastLine     string
	// Failed open attempts of the ongoing Open.
	attempts int
	// Settings changed after the live transport was opened.
	staged bool

	bytesSent     uint64
	bytesReceived uint64

	//Called when the Media state is changed.
	onState gxcommon.MediaStateHandler

	//Called with the raw bytes of every poll step.
	onReceive gxcommon.ReceivedEventHandler

	//Called when the Media is sending or receiving data.
	onTrace gxcommon.TraceEventHandler

	//Called when an error occurs.
	onErr gxcommon.ErrorEventHandler

	onByte  ByteEventHandler
	onLine  LineEventHandler
	onChunk ChunkEventHandler

	//Sync settings.
	received *receiveBuffer

	// Printer for localized messages.
	p *message.Printer
}

// NewGXStream creates a closed GXStream with the given settings.
func NewGXStream(settings Settings) *GXStream {
	g := &GXStream{
		settings:     settings,
		state:        gxcommon.MediaStateClosed,
		newTransport: NewTransport,
		received:     newReceiveBuffer(),
	}
	g.Localize(language.AmericanEnglish)
	return g
}

// NewGXSerialStream creates a GXStream for the given serial port.
func NewGXSerialStream(port string,
	baudRate gxcommon.BaudRate,
	dataBits int,
	parity gxcommon.Parity,
	stopBits gxcommon.StopBits) *GXStream {
	s := DefaultSettings()
	s.Type = TransportTypeSerial
	s.Endpoint = port
	s.BaudRate = baudRate
	s.DataBits = dataBits
	s.Parity = parity
	s.StopBits = stopBits
	return NewGXStream(s)
}

// NewGXNetStream creates a GXStream for a TCP peer.
func NewGXNetStream(hostName string, port int) *GXStream {
	s := DefaultSettings()
	s.Type = TransportTypeTCP
	s.Endpoint = net.JoinHostPort(hostName, strconv.Itoa(port))
	return NewGXStream(s)
}

// SetTransportFactory replaces the function that creates the transport of
// each open session. It is meant for tests and custom transports.
func (g *GXStream) SetTransportFactory(value TransportFactory) {
	if value == nil {
		value = NewTransport
	}
	g.newTransport = value
}

// Configuration returns a copy of the current settings.
func (g *GXStream) Configuration() Settings {
	return g.settings
}

// SetConfiguration replaces all settings at once.
func (g *GXStream) SetConfiguration(value Settings) error {
	g.settings = value
	return g.changed()
}

// TransportType returns the used transport.
func (g *GXStream) TransportType() TransportType {
	return g.settings.Type
}

// SetTransportType sets the used transport.
func (g *GXStream) SetTransportType(value TransportType) error {
	g.settings.Type = value
	return g.changed()
}

// Endpoint returns the serial port name or the host:port of the peer.
func (g *GXStream) Endpoint() string {
	return g.settings.Endpoint
}

// SetEndpoint sets the serial port name or the host:port of the peer.
func (g *GXStream) SetEndpoint(value string) error {
	g.settings.Endpoint = value
	return g.changed()
}

// BaudRate returns the used baud rate.
func (g *GXStream) BaudRate() gxcommon.BaudRate {
	return g.settings.BaudRate
}

// SetBaudRate sets the used baud rate.
func (g *GXStream) SetBaudRate(value gxcommon.BaudRate) error {
	g.settings.BaudRate = value
	return g.changed()
}

// DataBits returns the amount of the data bits.
func (g *GXStream) DataBits() int {
	return g.settings.DataBits
}

// SetDataBits sets the amount of the data bits.
func (g *GXStream) SetDataBits(value int) error {
	g.settings.DataBits = value
	return g.changed()
}

// StopBits returns used stop bits.
func (g *GXStream) StopBits() gxcommon.StopBits {
	return g.settings.StopBits
}

// SetStopBits sets the used stop bits.
func (g *GXStream) SetStopBits(value gxcommon.StopBits) error {
	g.settings.StopBits = value
	return g.changed()
}

// Parity returns used parity.
func (g *GXStream) Parity() gxcommon.Parity {
	return g.settings.Parity
}

// SetParity sets the used parity.
func (g *GXStream) SetParity(value gxcommon.Parity) error {
	g.settings.Parity = value
	return g.changed()
}

// ReadTimeout returns the read timeout.
func (g *GXStream) ReadTimeout() time.Duration {
	return g.settings.ReadTimeout
}

// SetReadTimeout sets the read timeout.
func (g *GXStream) SetReadTimeout(value time.Duration) error {
	g.settings.ReadTimeout = value
	return g.changed()
}

// WriteTimeout returns the write timeout.
func (g *GXStream) WriteTimeout() time.Duration {
	return g.settings.WriteTimeout
}

// SetWriteTimeout sets the write timeout.
func (g *GXStream) SetWriteTimeout(value time.Duration) error {
	g.settings.WriteTimeout = value
	return g.changed()
}

// MaxOpenAttempts returns how many times Open tries before it gives up.
func (g *GXStream) MaxOpenAttempts() int {
	return g.settings.MaxOpenAttempts
}

// SetMaxOpenAttempts sets how many times Open tries before it gives up.
// It does not affect an open transport.
func (g *GXStream) SetMaxOpenAttempts(value int) {
	g.settings.MaxOpenAttempts = value
}

// PollMode returns the poll mode used by Driver.
func (g *GXStream) PollMode() PollMode {
	return g.settings.PollMode
}

// SetPollMode sets the poll mode used by Driver.
func (g *GXStream) SetPollMode(value PollMode) {
	g.settings.PollMode = value
}

// AutoCycle tells if changed settings re-open an open media at once.
func (g *GXStream) AutoCycle() bool {
	return g.settings.AutoCycle
}

// SetAutoCycle sets if changed settings re-open an open media at once.
// When disabled, changes wait for the next Cycle.
func (g *GXStream) SetAutoCycle(value bool) {
	g.settings.AutoCycle = value
}

// NewLine returns the terminator appended by WriteLine.
func (g *GXStream) NewLine() string {
	return g.settings.NewLine
}

// SetNewLine sets the terminator appended by WriteLine.
func (g *GXStream) SetNewLine(value string) {
	g.settings.NewLine = value
}

// SettingsStaged tells if settings changed after the media was opened and
// wait for the next Cycle.
func (g *GXStream) SettingsStaged() bool {
	return g.staged
}

// State returns the connection state.
func (g *GXStream) State() gxcommon.MediaState {
	return g.state
}

// OpenAttempts returns the failed attempts of the ongoing Open.
func (g *GXStream) OpenAttempts() int {
	return g.attempts
}

// LastLine returns the last completed line. It survives Close.
func (g *GXStream) LastLine() string {
	return g.lastLine
}

// Pending returns the received bytes that are not yet part of a line.
func (g *GXStream) Pending() string {
	return g.framer.Pending()
}

// changed applies a settings change to an open media.
func (g *GXStream) changed() error {
	if g.state != gxcommon.MediaStateOpen {
		return nil
	}
	if !g.settings.AutoCycle {
		g.staged = true
		g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.settings_staged", g.GetName()))
		return nil
	}
	return g.Cycle()
}

// String implements IGXMedia
func (g *GXStream) String() string {
	if g.settings.Type == TransportTypeSerial {
		return fmt.Sprintf("%s %s %d %s %s", g.settings.Endpoint, g.settings.BaudRate, g.settings.DataBits, g.settings.StopBits, g.settings.Parity)
	}
	return g.settings.Endpoint
}

// GetName implements IGXMedia
func (g *GXStream) GetName() string {
	return g.settings.Endpoint
}

// IsOpen implements IGXMedia
func (g *GXStream) IsOpen() bool {
	return g.state == gxcommon.MediaStateOpen
}

// Copy implements IGXMedia
func (g *GXStream) Copy(target gxcommon.IGXMedia) error {
	switch dst := target.(type) {
	case *GXStream:
		dst.settings = g.settings
		dst.traceLevel = g.traceLevel
		dst.eop = g.eop
	default:
		return fmt.Errorf("copy: target is %T; want *GXStream", target)
	}
	return nil
}

// GetMediaType implements IGXMedia
func (g *GXStream) GetMediaType() string {
	if g.settings.Type == TransportTypeTCP {
		return "Net"
	}
	return "Serial"
}

// GetSettings implements IGXMedia
func (g *GXStream) GetSettings() string {
	return g.settings.toXML()
}

// SetSettings implements IGXMedia
func (g *GXStream) SetSettings(value string) error {
	s := g.settings
	if err := s.fromXML(value); err != nil {
		return err
	}
	return g.SetConfiguration(s)
}

// GetSynchronous implements IGXMedia
func (g *GXStream) GetSynchronous() func() {
	g.mu.Lock()
	g.synchronous = true
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.synchronous = false
		g.mu.Unlock()
	}
}

// IsSynchronous implements IGXMedia
func (g *GXStream) IsSynchronous() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.synchronous
}

// ResetSynchronousBuffer implements IGXMedia
func (g *GXStream) ResetSynchronousBuffer() {
	g.received.Reset()
}

// GetBytesSent implements IGXMedia
func (g *GXStream) GetBytesSent() uint64 {
	return g.bytesSent
}

// GetBytesReceived implements IGXMedia
func (g *GXStream) GetBytesReceived() uint64 {
	return g.bytesReceived
}

// ResetByteCounters implements IGXMedia
func (g *GXStream) ResetByteCounters() {
	g.bytesSent = 0
	g.bytesReceived = 0
}

// Validate implements IGXMedia
func (g *GXStream) Validate() error {
	return g.settings.validate(g.p)
}

// SetEop implements IGXMedia
func (g *GXStream) SetEop(eop any) {
	g.eop = eop
}

// GetEop implements IGXMedia
func (g *GXStream) GetEop() any {
	return g.eop
}

// GetTrace implements IGXMedia
func (g *GXStream) GetTrace() gxcommon.TraceLevel {
	return g.traceLevel
}

// SetTrace implements IGXMedia
func (g *GXStream) SetTrace(traceLevel gxcommon.TraceLevel) error {
	g.traceLevel = traceLevel
	return nil
}

// SetOnReceived implements IGXMedia
func (g *GXStream) SetOnReceived(value gxcommon.ReceivedEventHandler) {
	g.mu.Lock()
	g.onReceive = value
	g.mu.Unlock()
}

// SetOnError implements IGXMedia
func (g *GXStream) SetOnError(value gxcommon.ErrorEventHandler) {
	g.mu.Lock()
	g.onErr = value
	g.mu.Unlock()
}

// SetOnMediaStateChange implements IGXMedia
func (g *GXStream) SetOnMediaStateChange(value gxcommon.MediaStateHandler) {
	g.mu.Lock()
	g.onState = value
	g.mu.Unlock()
}

// SetOnTrace implements IGXMedia
func (g *GXStream) SetOnTrace(value gxcommon.TraceEventHandler) {
	g.mu.Lock()
	g.onTrace = value
	g.mu.Unlock()
}

// SetOnByteReceived sets the handler called for every received byte.
func (g *GXStream) SetOnByteReceived(value ByteEventHandler) {
	g.mu.Lock()
	g.onByte = value
	g.mu.Unlock()
}

// SetOnLineReceived sets the handler called for every completed line.
func (g *GXStream) SetOnLineReceived(value LineEventHandler) {
	g.mu.Lock()
	g.onLine = value
	g.mu.Unlock()
}

// SetOnChunkReceived sets the handler called with the data of every poll
// step that read something.
func (g *GXStream) SetOnChunkReceived(value ChunkEventHandler) {
	g.mu.Lock()
	g.onChunk = value
	g.mu.Unlock()
}

// Open implements IGXMedia
//
// A failed attempt is retried at once until MaxOpenAttempts attempts have
// failed. Then the media stays closed, the error handler is called once
// and the returned error wraps ErrOpenFailed. Open can be called again
// later.
func (g *GXStream) Open() error {
	if g.state == gxcommon.MediaStateOpen {
		return nil
	}
	if err := g.Validate(); err != nil {
		g.errorf(err)
		return err
	}
	g.setState(gxcommon.MediaStateOpening)
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.opening", g.settings.Type.String(), g.settings.Endpoint))
	var lastErr error
	for g.attempts < g.settings.MaxOpenAttempts {
		t, err := g.newTransport(g.settings)
		if err == nil {
			err = t.Open()
		}
		if err == nil {
			g.transport = t
			g.attempts = 0
			g.staged = false
			g.framer.Reset()
			g.setState(gxcommon.MediaStateOpen)
			g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.opened", g.settings.Endpoint))
			return nil
		}
		g.attempts++
		lastErr = err
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.open_attempt_failed", g.attempts, g.settings.MaxOpenAttempts, g.settings.Endpoint, err))
	}
	g.attempts = 0
	g.state = gxcommon.MediaStateClosed
	g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.open_failed", g.settings.Endpoint, g.settings.MaxOpenAttempts))
	err := fmt.Errorf("%w: %s: %w", ErrOpenFailed, g.settings.Endpoint, lastErr)
	g.errorf(err)
	return err
}

// Close implements IGXMedia
//
// Closing a media that is not open does nothing.
func (g *GXStream) Close() error {
	if g.state != gxcommon.MediaStateOpen {
		return nil
	}
	t := g.transport
	g.transport = nil
	g.setState(gxcommon.MediaStateClosing)
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.closing", g.settings.Endpoint))
	_ = t.DiscardBuffers()
	err := t.Close()
	g.framer.Reset()
	g.setState(gxcommon.MediaStateClosed)
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.closed", g.settings.Endpoint))
	return err
}

// Cycle closes the media and opens it again with the current settings.
func (g *GXStream) Cycle() error {
	if err := g.Close(); err != nil {
		g.errorf(err)
	}
	return g.Open()
}

// Flush drops unread input and waits until written data has been sent.
func (g *GXStream) Flush() error {
	if g.state != gxcommon.MediaStateOpen {
		return nil
	}
	if err := g.transport.DiscardBuffers(); err != nil {
		return err
	}
	return g.transport.Drain()
}

// Write sends data. A write that times out is dropped.
func (g *GXStream) Write(data []byte) error {
	if g.state != gxcommon.MediaStateOpen {
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.not_open"))
		return ErrNotOpen
	}
	if str, err := gxcommon.ToString(data); err == nil {
		g.tracef(gxcommon.TraceTypesSent, "TX: %s", str)
	}
	if err := g.transport.Write(data); err != nil {
		if errors.Is(err, ErrWriteTimeout) {
			g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.write_timeout"))
		} else {
			g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.write_failed", err))
		}
		g.errorf(err)
		return err
	}
	g.bytesSent += uint64(len(data))
	return nil
}

// WriteString sends value, one byte per character.
func (g *GXStream) WriteString(value string) error {
	return g.Write(encodeLatin1(value))
}

// WriteLine sends value followed by NewLine.
func (g *GXStream) WriteLine(value string) error {
	return g.WriteString(value + g.settings.NewLine)
}

// Send implements IGXMedia
func (g *GXStream) Send(data any, receiver string) error {
	tmp, err := gxcommon.ToBytes(data, binary.BigEndian)
	if err != nil {
		return err
	}
	return g.Write(tmp)
}

// Receive implements IGXMedia
//
// Data is collected for Receive only while the media is synchronous and
// PollOnce is called from another goroutine.
func (g *GXStream) Receive(args *gxcommon.ReceiveParameters) (bool, error) {
	if args.EOP == nil && args.Count == 0 && !args.AllData {
		return false, errors.New(g.p.Sprintf("msg.count_or_eop"))
	}
	terminator, err := gxcommon.ToBytes(args.EOP, binary.BigEndian)
	if err != nil {
		return false, err
	}
	var waitTime time.Duration
	if args.WaitTime > 0 {
		waitTime = time.Duration(args.WaitTime) * time.Millisecond
	}
	index := g.received.Search(terminator, args.Count, waitTime)
	if index == -1 {
		return false, nil
	}
	if len(terminator) == 0 {
		index = args.Count
	}
	if index == 0 || args.AllData {
		//Read all data.
		index = -1
	}
	args.Reply, err = gxcommon.BytesToAny2(g.received.Get(index), args.ReplyType, binary.ByteOrder(binary.BigEndian))
	if err != nil {
		return false, err
	}
	return true, nil
}

// PollOnce reads every byte the transport has available and dispatches
// it. It returns the number of bytes read. Read errors are traced and
// reported to the error handler; they never stop polling, except that a
// lost connection closes the media.
func (g *GXStream) PollOnce() int {
	if g.state != gxcommon.MediaStateOpen {
		return 0
	}
	t := g.transport
	n, err := t.BytesAvailable()
	if err != nil {
		g.readFailed(err)
		return 0
	}
	var data []byte
	var readErr error
	for n > 0 && readErr == nil {
		for ; n > 0; n-- {
			c, err := t.ReadByte()
			if err != nil {
				readErr = err
				break
			}
			data = append(data, c)
		}
		if readErr == nil {
			n, readErr = t.BytesAvailable()
		}
	}
	if len(data) != 0 {
		g.dispatch(t, data)
	}
	if readErr != nil && g.transport == t {
		g.readFailed(readErr)
	}
	return len(data)
}

// dispatch notifies the subscribers about data read from t. If a
// subscriber closes the media the rest of data is dropped.
func (g *GXStream) dispatch(t Transport, data []byte) {
	g.bytesReceived += uint64(len(data))
	if str, err := gxcommon.ToString(data); err == nil {
		g.tracef(gxcommon.TraceTypesReceived, "RX: %s", str)
	}
	g.mu.RLock()
	onByte, onLine, onChunk := g.onByte, g.onLine, g.onChunk
	synchronous := g.synchronous
	g.mu.RUnlock()
	for _, c := range data {
		if onByte != nil {
			onByte(g, c)
		}
		line, ok := g.framer.Feed(c)
		if ok {
			g.lastLine = line
			if onLine != nil {
				onLine(g, line)
			}
		}
		if g.transport != t {
			return
		}
	}
	if onChunk != nil {
		onChunk(g, decodeLatin1(data))
	}
	if synchronous {
		g.received.Append(data)
	} else {
		g.receivef(data)
	}
}

// waitReadable waits until the transport has input. waited is false when
// the media is closed or the transport can not wait.
func (g *GXStream) waitReadable(timeout time.Duration) (ready bool, waited bool) {
	if g.state != gxcommon.MediaStateOpen {
		return false, false
	}
	w, ok := g.transport.(readinessWaiter)
	if !ok {
		return false, false
	}
	ready, err := w.WaitReadable(timeout)
	if err != nil {
		return false, false
	}
	return ready, true
}

func (g *GXStream) readFailed(err error) {
	switch {
	case errors.Is(err, gxcommon.ErrConnectionClosed):
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.connection_lost", g.settings.Endpoint))
		g.errorf(err)
		_ = g.Close()
		return
	case errors.Is(err, ErrReadTimeout):
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.read_timeout"))
	case errors.Is(err, ErrNotOpen):
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.not_open"))
	default:
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.read_failed", err))
	}
	g.errorf(err)
}

func (g *GXStream) setState(state gxcommon.MediaState) {
	g.state = state
	g.mu.RLock()
	cb := g.onState
	g.mu.RUnlock()
	if cb != nil {
		cb(g, *gxcommon.NewMediaStateEventArgs(state))
	}
}

func (g *GXStream) receivef(data []byte) {
	g.mu.RLock()
	cb := g.onReceive
	g.mu.RUnlock()
	if cb != nil {
		cb(g, *gxcommon.NewReceiveEventArgs(data, g.settings.Endpoint))
	}
}

func (g *GXStream) errorf(err error) {
	g.mu.RLock()
	cb := g.onErr
	g.mu.RUnlock()
	if cb != nil {
		cb(g, err)
	}
}

func (g *GXStream) tracef(traceType gxcommon.TraceTypes, fmtStr string, a ...any) {
	g.trace(traceType, fmt.Sprintf(fmtStr, a...))
}

func (g *GXStream) trace(traceType gxcommon.TraceTypes, message string) {
	g.mu.RLock()
	cb := g.onTrace
	g.mu.RUnlock()
	if cb != nil && int(g.traceLevel) >= int(traceLevelOf(traceType)) {
		p := gxcommon.NewTraceEventArgs(traceType, message, "")
		var m gxcommon.IGXMedia = g
		cb(m, *p)
	}
}

// traceLevelOf returns the lowest trace level that shows traceType.
func traceLevelOf(traceType gxcommon.TraceTypes) gxcommon.TraceLevel {
	switch traceType {
	case gxcommon.TraceTypesError:
		return gxcommon.TraceLevelError
	case gxcommon.TraceTypesWarning:
		return gxcommon.TraceLevelWarning
	case gxcommon.TraceTypesInfo:
		return gxcommon.TraceLevelInfo
	default:
		return gxcommon.TraceLevelVerbose
	}
}

// Localize messages for the specified language.
// No errors is returned if language is not supported.
func (g *GXStream) Localize(language language.Tag) {
	g.p = message.NewPrinter(language)
}
