//go:build linux || darwin

package gxstream

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

type port struct {
	f  *os.File
	fd int
}

func (p *port) isOpen() bool {
	return p != nil && p.f != nil
}

func (p *port) ensureOpen() error {
	if !p.isOpen() {
		return ErrNotOpen
	}
	return nil
}

// openFile opens the device without making it the controlling terminal
// and claims it exclusively.
func (p *port) openFile(name string) error {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if err != nil {
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
		_ = unix.Close(fd)
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}
	p.fd = fd
	p.f = os.NewFile(uintptr(fd), name)
	return nil
}

func (p *port) close() error {
	if p == nil || p.f == nil {
		return nil
	}
	_ = unix.IoctlSetInt(p.fd, unix.TIOCNXCL, 0)
	f := p.f
	p.f = nil
	p.fd = 0
	return f.Close()
}

// classifyOpenError maps errno values of open(2) to the open error kinds.
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %w", ErrAlreadyOpen, err)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %w", ErrEndpointUnavailable, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

func (p *port) waitReadable(timeout time.Duration) (bool, error) {
	if err := p.ensureOpen(); err != nil {
		return false, err
	}
	pfds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("waitReadable failed: %w", err)
	}
	// Hang up and errors are reported as readable so the next read
	// surfaces them.
	return n > 0 && pfds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
}

func (p *port) read(count int, timeout time.Duration) ([]byte, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 1
	}
	_ = p.f.SetReadDeadline(deadline(timeout))
	buf := make([]byte, count)
	n, err := p.f.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, ErrReadTimeout
		}
		return nil, err
	}
	return buf[:n], nil
}

func (p *port) write(data []byte, timeout time.Duration) (int, error) {
	if err := p.ensureOpen(); err != nil {
		return 0, err
	}
	_ = p.f.SetWriteDeadline(deadline(timeout))
	n, err := p.f.Write(data)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return n, ErrWriteTimeout
	}
	return n, err
}
