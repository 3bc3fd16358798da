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
	"fmt"
	"time"
)

// serialTransport is a Transport over a local serial port. The OS
// specific port handle lives in the *Handler.go files.
type serialTransport struct {
	settings Settings
	s        port
	// Bytes read from the port but not yet returned by ReadByte.
	pending []byte
}

func newSerialTransport(settings Settings) *serialTransport {
	return &serialTransport{settings: settings}
}

// GetPortNames returns the list of available serial ports.
func GetPortNames() ([]string, error) {
	return getPortNames()
}

func (t *serialTransport) Open() error {
	if t.s.isOpen() {
		return nil
	}
	if err := openPort(&t.s, &t.settings); err != nil {
		return fmt.Errorf("open %s: %w", t.settings.Endpoint, classifyOpenError(err))
	}
	t.pending = nil
	return nil
}

func (t *serialTransport) Close() error {
	t.pending = nil
	return t.s.close()
}

func (t *serialTransport) BytesAvailable() (int, error) {
	if !t.s.isOpen() {
		return 0, ErrNotOpen
	}
	n, err := t.s.getBytesToRead()
	if err != nil {
		return 0, err
	}
	return len(t.pending) + n, nil
}

func (t *serialTransport) ReadByte() (byte, error) {
	if !t.s.isOpen() {
		return 0, ErrNotOpen
	}
	if len(t.pending) == 0 {
		cnt, err := t.s.getBytesToRead()
		if err != nil {
			return 0, err
		}
		if cnt == 0 {
			ok, err := t.s.waitReadable(t.settings.ReadTimeout)
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, ErrReadTimeout
			}
			cnt = 1
		}
		buf, err := t.s.read(cnt, t.settings.ReadTimeout)
		if err != nil {
			return 0, err
		}
		if len(buf) == 0 {
			return 0, ErrReadTimeout
		}
		t.pending = buf
	}
	c := t.pending[0]
	t.pending = t.pending[1:]
	return c, nil
}

func (t *serialTransport) Write(data []byte) error {
	if !t.s.isOpen() {
		return ErrNotOpen
	}
	_, err := t.s.write(data, t.settings.WriteTimeout)
	return err
}

func (t *serialTransport) DiscardBuffers() error {
	t.pending = nil
	if !t.s.isOpen() {
		return nil
	}
	return t.s.discardInput()
}

func (t *serialTransport) Drain() error {
	if !t.s.isOpen() {
		return nil
	}
	return t.s.drain()
}

func (t *serialTransport) WaitReadable(timeout time.Duration) (bool, error) {
	if len(t.pending) != 0 {
		return true, nil
	}
	if !t.s.isOpen() {
		return false, ErrNotOpen
	}
	return t.s.waitReadable(timeout)
}

// deadline converts a timeout into a deadline. Zero means no deadline.
func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}
