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

import "errors"

var (
	// ErrOpenFailed is reported when every open attempt has failed.
	ErrOpenFailed = errors.New("failed to open media")
	// ErrEndpointUnavailable is returned when the port or host can not be reached.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
	// ErrPermissionDenied is returned when the caller may not open the endpoint.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAlreadyOpen is returned when the endpoint is held by another handle.
	ErrAlreadyOpen = errors.New("endpoint already open")
	// ErrReadTimeout is returned when no byte arrived within the read timeout.
	ErrReadTimeout = errors.New("read timed out")
	// ErrWriteTimeout is returned when data could not be written within the write timeout.
	ErrWriteTimeout = errors.New("write timed out")
	// ErrNotOpen is returned when I/O is attempted on a closed media.
	ErrNotOpen = errors.New("media is not open")
	// ErrDriverStopped is returned by Driver.Do after Run has returned.
	ErrDriverStopped = errors.New("driver stopped")
)
