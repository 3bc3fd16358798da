//go:build windows

package gxstream

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

type port struct {
	h       windows.Handle
	ovRead  windows.Overlapped
	ovWrite windows.Overlapped
}

func (p *port) isOpen() bool {
	return p != nil && p.h != 0 && p.h != windows.InvalidHandle
}

// getPortNames retrieves the list of available serial port names on a Windows system by querying the registry.
func getPortNames() ([]string, error) {
	const path = `HARDWARE\DEVICEMAP\SERIALCOMM`

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return []string{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = key.Close()
	}()

	valueNames, err := key.ReadValueNames(-1)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, name := range valueNames {
		port, _, err := key.GetStringValue(name)
		if err == nil {
			ports = append(ports, port)
		}
	}
	return ports, nil
}

const (
	dcbFBinary         = 1 << 0
	dcbFParity         = 1 << 1
	dcbFOutxCtsFlow    = 1 << 2
	dcbFOutxDsrFlow    = 1 << 3
	dcbFOutX           = 1 << 8
	dcbFInX            = 1 << 9
	dcbFErrorChar      = 1 << 10
	dcbFNull           = 1 << 11
	dcbFAbortOnError   = 1 << 14
	dcbFDtrControlMask = 0x3 << 4  // bits 4-5
	dcbFRtsControlMask = 0x3 << 12 // bits 12-13
)

// DCB stop bit values.
const (
	oneStopBit   = 0
	one5StopBits = 1
	twoStopBits  = 2
)

const waitTimeout = 0x102

func setFlag(d *windows.DCB, flag uint32, on bool) {
	if on {
		d.Flags |= flag
	} else {
		d.Flags &^= flag
	}
}

func (p *port) ensureOpen() error {
	if !p.isOpen() {
		return ErrNotOpen
	}
	return nil
}

func (p *port) getCommState() (*windows.DCB, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	var d windows.DCB
	d.DCBlength = uint32(unsafe.Sizeof(d))
	if err := windows.GetCommState(p.h, &d); err != nil {
		return nil, fmt.Errorf("GetCommState failed: %w", err)
	}
	return &d, nil
}

func (p *port) updateSettings(cfg *Settings) error {
	d, err := p.getCommState()
	if err != nil {
		return err
	}
	if cfg.DataBits < 5 || cfg.DataBits > 8 {
		return fmt.Errorf("%w: invalid databits %d (must be 5..8)", gxcommon.ErrInvalidArgument, cfg.DataBits)
	}
	d.BaudRate = uint32(cfg.BaudRate)
	d.ByteSize = byte(cfg.DataBits)
	d.Parity = byte(cfg.Parity)
	switch cfg.StopBits {
	case gxcommon.StopBitsOne:
		d.StopBits = oneStopBit
	case gxcommon.StopBitsTwo:
		d.StopBits = twoStopBits
	default:
		d.StopBits = one5StopBits
	}
	setFlag(d, dcbFParity, d.Parity != 0)
	setFlag(d, dcbFBinary, true)
	setFlag(d, dcbFNull, false)
	setFlag(d, dcbFErrorChar, false)
	setFlag(d, dcbFAbortOnError, false)
	// No flow control.
	setFlag(d, dcbFOutxCtsFlow|dcbFOutxDsrFlow|dcbFOutX|dcbFInX, false)
	d.Flags &^= dcbFDtrControlMask | dcbFRtsControlMask
	if err := windows.SetCommState(p.h, d); err != nil {
		return fmt.Errorf("SetCommState failed: %w", err)
	}
	// Reads return at once when input is queued and wait for the first
	// byte otherwise; the waiting itself is bounded in read.
	t := windows.CommTimeouts{
		ReadIntervalTimeout:        0xFFFFFFFF,
		ReadTotalTimeoutMultiplier: 0xFFFFFFFF,
		ReadTotalTimeoutConstant:   uint32(cfg.ReadTimeout / time.Millisecond),
		WriteTotalTimeoutConstant:  uint32(cfg.WriteTimeout / time.Millisecond),
	}
	if err := windows.SetCommTimeouts(p.h, &t); err != nil {
		return fmt.Errorf("SetCommTimeouts failed: %w", err)
	}
	return nil
}

func openPort(p *port, cfg *Settings) error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return errors.New("invalid serial port name")
	}
	*p = port{}
	path := cfg.Endpoint
	if !strings.HasPrefix(path, `\\.\`) {
		path = `\\.\` + path
	}
	h, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_OVERLAPPED,
		0,
	)
	if err != nil {
		return err
	}
	p.h = h

	er, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		_ = p.close()
		return fmt.Errorf("CreateEvent(read) failed: %w", err)
	}
	p.ovRead.HEvent = er

	ew, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		_ = p.close()
		return fmt.Errorf("CreateEvent(write) failed: %w", err)
	}
	p.ovWrite.HEvent = ew

	if err := p.updateSettings(cfg); err != nil {
		_ = p.close()
		return fmt.Errorf("failed to update serial port settings: %w", err)
	}
	if err := windows.PurgeComm(p.h,
		windows.PURGE_TXCLEAR|windows.PURGE_TXABORT|windows.PURGE_RXCLEAR|windows.PURGE_RXABORT,
	); err != nil {
		_ = p.close()
		return fmt.Errorf("PurgeComm failed: %w", err)
	}
	return nil
}

// classifyOpenError maps CreateFile errors to the open error kinds.
// Windows reports a port held by another process as access denied.
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED), errors.Is(err, windows.ERROR_SHARING_VIOLATION):
		return fmt.Errorf("%w: %w", ErrAlreadyOpen, err)
	case errors.Is(err, windows.ERROR_FILE_NOT_FOUND), errors.Is(err, windows.ERROR_PATH_NOT_FOUND):
		return fmt.Errorf("%w: %w", ErrEndpointUnavailable, err)
	}
	return err
}

// ClearCommError + COMSTAT.cbInQue
func (p *port) getBytesToRead() (int, error) {
	if err := p.ensureOpen(); err != nil {
		return 0, err
	}
	var flags uint32
	var st windows.ComStat
	if err := windows.ClearCommError(p.h, &flags, &st); err != nil {
		return 0, fmt.Errorf("getBytesToRead failed: %w", err)
	}
	return int(st.CBInQue), nil
}

// wait waits for the overlapped operation ov. It cancels the operation
// and returns false when timeout expires first.
func (p *port) wait(ov *windows.Overlapped, timeout time.Duration) (uint32, bool, error) {
	ms := uint32(windows.INFINITE)
	if timeout > 0 {
		ms = uint32(timeout / time.Millisecond)
	}
	var n uint32
	r, err := windows.WaitForSingleObject(ov.HEvent, ms)
	if err != nil {
		return 0, false, fmt.Errorf("wait failed: %w", err)
	}
	if r == waitTimeout {
		_ = windows.CancelIoEx(p.h, ov)
		_ = windows.GetOverlappedResult(p.h, ov, &n, true)
		return n, false, nil
	}
	if err := windows.GetOverlappedResult(p.h, ov, &n, true); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (p *port) read(count int, timeout time.Duration) ([]byte, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 1
	}
	buf := make([]byte, count)
	var n uint32
	_ = windows.ResetEvent(p.ovRead.HEvent)
	err := windows.ReadFile(p.h, buf, &n, &p.ovRead)
	if err == nil {
		return buf[:n], nil
	}
	if !errors.Is(err, windows.ERROR_IO_PENDING) {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	n, done, err := p.wait(&p.ovRead, timeout)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if !done && n == 0 {
		return nil, ErrReadTimeout
	}
	return buf[:n], nil
}

func (p *port) write(data []byte, timeout time.Duration) (int, error) {
	if err := p.ensureOpen(); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	var n uint32
	_ = windows.ResetEvent(p.ovWrite.HEvent)
	err := windows.WriteFile(p.h, data, &n, &p.ovWrite)
	if err == nil {
		return int(n), nil
	}
	if !errors.Is(err, windows.ERROR_IO_PENDING) {
		return 0, fmt.Errorf("write failed: %w", err)
	}
	n, done, err := p.wait(&p.ovWrite, timeout)
	if err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}
	if !done {
		return int(n), ErrWriteTimeout
	}
	return int(n), nil
}

// waitReadable polls the input queue; there is no overlapped wait for
// input on this handle.
func (p *port) waitReadable(timeout time.Duration) (bool, error) {
	end := time.Now().Add(timeout)
	for {
		n, err := p.getBytesToRead()
		if err != nil {
			return false, err
		}
		if n != 0 {
			return true, nil
		}
		rem := time.Until(end)
		if rem <= 0 {
			return false, nil
		}
		time.Sleep(min(10*time.Millisecond, rem))
	}
}

func (p *port) discardInput() error {
	if err := p.ensureOpen(); err != nil {
		return err
	}
	if err := windows.PurgeComm(p.h, windows.PURGE_RXCLEAR); err != nil {
		return fmt.Errorf("discardInput failed: %w", err)
	}
	return nil
}

func (p *port) drain() error {
	if err := p.ensureOpen(); err != nil {
		return err
	}
	if err := windows.FlushFileBuffers(p.h); err != nil {
		return fmt.Errorf("drain failed: %w", err)
	}
	return nil
}

func (p *port) close() error {
	if p == nil {
		return nil
	}
	if p.isOpen() {
		_ = windows.CancelIoEx(p.h, nil)
	}
	if p.ovRead.HEvent != 0 {
		_ = windows.CloseHandle(p.ovRead.HEvent)
		p.ovRead.HEvent = 0
	}
	if p.ovWrite.HEvent != 0 {
		_ = windows.CloseHandle(p.ovWrite.HEvent)
		p.ovWrite.HEvent = 0
	}
	var err error
	if p.h != 0 {
		err = windows.CloseHandle(p.h)
		p.h = 0
	}
	return err
}
