//go:build linux

package gxstream

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/sys/unix"
)

// toUnixBaudRate maps a baud rate to the corresponding constant in the unix package.
var toUnixBaudRate = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
}

// CMSPAR selects mark/space parity together with PARENB.
const cmspar = 0x40000000

// getPortNames returns a list of available serial port device paths on Linux.
func getPortNames() ([]string, error) {
	patterns := []string{
		"/dev/ttyS*",
		"/dev/ttyUSB*",
		"/dev/ttyXRUSB*",
		"/dev/ttyACM*",
		"/dev/ttyAMA*",
		"/dev/rfcomm*",
		"/dev/ttyAP*",
	}

	var devices []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, device := range matches {
			name := filepath.Base(device)
			sysPath := filepath.Join("/sys/class/tty", name, "device")

			if _, err := os.Stat(sysPath); err == nil {
				devices = append(devices, device)
			}
		}
	}
	return devices, nil
}

// openPort opens cfg.Endpoint in raw mode with the line settings of cfg.
func openPort(p *port, cfg *Settings) error {
	if err := p.openFile(cfg.Endpoint); err != nil {
		return err
	}
	t, err := unix.IoctlGetTermios(p.fd, unix.TCGETS)
	if err != nil {
		_ = p.close()
		return fmt.Errorf("tcgetattr failed: %w", err)
	}
	if err := configureTermios(t, cfg); err != nil {
		_ = p.close()
		return err
	}
	if err := unix.IoctlSetTermios(p.fd, unix.TCSETS, t); err != nil {
		_ = p.close()
		return fmt.Errorf("tcsetattr failed: %w", err)
	}
	if err := p.discardInput(); err != nil {
		_ = p.close()
		return err
	}
	return nil
}

func configureTermios(t *unix.Termios, cfg *Settings) error {
	t.Cflag |= unix.CLOCAL | unix.CREAD
	t.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHONL | unix.ISIG | unix.IEXTEN
	t.Oflag &^= unix.OPOST | unix.ONLCR | unix.OCRNL
	t.Iflag &^= unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IGNBRK | unix.BRKINT | unix.PARMRK
	// A read with nothing queued must report EAGAIN, not EOF, so the
	// runtime poller can wait for it with the read deadline.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	speed, ok := toUnixBaudRate[int(cfg.BaudRate)]
	if !ok {
		return fmt.Errorf("%w: unsupported baud rate %d", gxcommon.ErrInvalidArgument, int(cfg.BaudRate))
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= speed
	t.Ispeed = speed
	t.Ospeed = speed

	t.Cflag &^= unix.CSIZE
	switch cfg.DataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag |= unix.CS8
	default:
		return fmt.Errorf("%w: invalid databits %d (must be 5..8)", gxcommon.ErrInvalidArgument, cfg.DataBits)
	}

	switch cfg.StopBits {
	case gxcommon.StopBitsOne:
		t.Cflag &^= unix.CSTOPB
	case gxcommon.StopBitsTwo:
		t.Cflag |= unix.CSTOPB
	default:
		// termios gives 1.5 stop bits for CSTOPB with 5 data bits only.
		if cfg.DataBits != 5 {
			return fmt.Errorf("%w: 1.5 stop bits needs 5 data bits", gxcommon.ErrInvalidArgument)
		}
		t.Cflag |= unix.CSTOPB
	}

	t.Iflag &^= unix.INPCK | unix.ISTRIP
	t.Cflag &^= unix.PARENB | unix.PARODD | cmspar
	switch cfg.Parity {
	case gxcommon.ParityNone:
	case gxcommon.ParityEven:
		t.Cflag |= unix.PARENB
	case gxcommon.ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case gxcommon.ParityMark:
		t.Cflag |= unix.PARENB | cmspar | unix.PARODD
	case gxcommon.ParitySpace:
		t.Cflag |= unix.PARENB | cmspar
	default:
		return fmt.Errorf("%w: invalid parity %d", gxcommon.ErrInvalidArgument, int(cfg.Parity))
	}

	// No flow control.
	t.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY
	t.Cflag &^= unix.CRTSCTS
	return nil
}

func (p *port) getBytesToRead() (int, error) {
	if err := p.ensureOpen(); err != nil {
		return 0, err
	}
	n, err := unix.IoctlGetInt(p.fd, unix.TIOCINQ)
	if err != nil {
		return 0, fmt.Errorf("getBytesToRead failed: %w", err)
	}
	return n, nil
}

func (p *port) discardInput() error {
	if err := p.ensureOpen(); err != nil {
		return err
	}
	if err := unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("discardInput failed: %w", err)
	}
	return nil
}

// drain is tcdrain(3).
func (p *port) drain() error {
	if err := p.ensureOpen(); err != nil {
		return err
	}
	if err := unix.IoctlSetInt(p.fd, unix.TCSBRK, 1); err != nil {
		return fmt.Errorf("drain failed: %w", err)
	}
	return nil
}
