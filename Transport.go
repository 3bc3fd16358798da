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

	"github.com/Gurux/gxcommon-go"
)

// Transport is the byte source and sink a GXStream drives.
//
// A Transport value is the handle of one OS or network resource. It is
// created for a single open session and discarded after Close.
type Transport interface {
	// Open acquires the resource. Errors wrap ErrEndpointUnavailable,
	// ErrPermissionDenied or ErrAlreadyOpen when the cause is known.
	Open() error
	// Close releases the resource.
	Close() error
	// BytesAvailable returns the number of bytes ReadByte can return
	// without waiting.
	BytesAvailable() (int, error)
	// ReadByte returns the next byte. It fails with ErrReadTimeout when
	// nothing arrives within the read timeout.
	ReadByte() (byte, error)
	// Write sends data. It fails with ErrWriteTimeout or ErrNotOpen.
	Write(data []byte) error
	// DiscardBuffers drops unread input.
	DiscardBuffers() error
	// Drain blocks until buffered output has been sent.
	Drain() error
}

// readinessWaiter is implemented by transports that can wait for input.
type readinessWaiter interface {
	// WaitReadable reports whether input arrived within timeout.
	WaitReadable(timeout time.Duration) (bool, error)
}

// TransportFactory creates the transport for one open session.
type TransportFactory func(settings Settings) (Transport, error)

// NewTransport creates the transport selected by settings.Type.
func NewTransport(settings Settings) (Transport, error) {
	switch settings.Type {
	case TransportTypeSerial:
		return newSerialTransport(settings), nil
	case TransportTypeTCP:
		return newNetTransport(settings), nil
	default:
		return nil, fmt.Errorf("%w: transport type %d", gxcommon.ErrInvalidArgument, int(settings.Type))
	}
}
