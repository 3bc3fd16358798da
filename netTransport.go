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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"time"

	"github.com/Gurux/gxcommon-go"
)

// Ethernet maximum frame size is 1518 bytes.
const netReadBufferSize = 1518

// Availability of kernel buffered input is probed with a read that may
// wait this long.
const netProbeTimeout = time.Millisecond

// netTransport is a Transport over a TCP stream socket.
type netTransport struct {
	settings Settings
	conn     net.Conn
	r        *bufio.Reader
}

func newNetTransport(settings Settings) *netTransport {
	return &netTransport{settings: settings}
}

func (t *netTransport) Open() error {
	if t.conn != nil {
		return nil
	}
	c, err := net.DialTimeout("tcp", t.settings.Endpoint, t.settings.ConnectTimeout)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("connect to %s: %w: %w", t.settings.Endpoint, ErrPermissionDenied, err)
		}
		return fmt.Errorf("connect to %s: %w: %w", t.settings.Endpoint, ErrEndpointUnavailable, err)
	}
	t.conn = c
	t.r = bufio.NewReaderSize(c, netReadBufferSize)
	return nil
}

func (t *netTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.r = nil
	return err
}

// fill waits up to timeout for at least one byte in the read buffer.
func (t *netTransport) fill(timeout time.Duration) (bool, error) {
	if t.r.Buffered() != 0 {
		return true, nil
	}
	_ = t.conn.SetReadDeadline(time.Now().Add(timeout))
	_, err := t.r.Peek(1)
	if err == nil {
		return true, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return false, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return false, gxcommon.ErrConnectionClosed
	}
	return false, err
}

func (t *netTransport) BytesAvailable() (int, error) {
	if t.conn == nil {
		return 0, ErrNotOpen
	}
	if _, err := t.fill(netProbeTimeout); err != nil {
		return 0, err
	}
	return t.r.Buffered(), nil
}

func (t *netTransport) ReadByte() (byte, error) {
	if t.conn == nil {
		return 0, ErrNotOpen
	}
	timeout := t.settings.ReadTimeout
	if timeout <= 0 {
		timeout = netProbeTimeout
	}
	ok, err := t.fill(timeout)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrReadTimeout
	}
	return t.r.ReadByte()
}

func (t *netTransport) Write(data []byte) error {
	if t.conn == nil {
		return ErrNotOpen
	}
	_ = t.conn.SetWriteDeadline(deadline(t.settings.WriteTimeout))
	_, err := t.conn.Write(data)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return ErrWriteTimeout
		}
		return err
	}
	return nil
}

// DiscardBuffers drops buffered input and whatever the kernel has queued
// right now.
func (t *netTransport) DiscardBuffers() error {
	if t.conn == nil {
		return nil
	}
	if _, err := t.r.Discard(t.r.Buffered()); err != nil {
		return err
	}
	ok, err := t.fill(netProbeTimeout)
	if err != nil || !ok {
		if errors.Is(err, gxcommon.ErrConnectionClosed) {
			return nil
		}
		return err
	}
	_, err = t.r.Discard(t.r.Buffered())
	return err
}

// Drain is a no-op: writes go straight to the socket.
func (t *netTransport) Drain() error {
	return nil
}

func (t *netTransport) WaitReadable(timeout time.Duration) (bool, error) {
	if t.conn == nil {
		return false, ErrNotOpen
	}
	return t.fill(timeout)
}
