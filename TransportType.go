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
	"strings"

	"github.com/Gurux/gxcommon-go"
)

// TransportType determines which kind of byte stream the media wraps.
type TransportType int

const (
	// TransportTypeSerial defines that a local serial port is used.
	TransportTypeSerial TransportType = iota
	// TransportTypeTCP defines that a TCP stream socket is used.
	TransportTypeTCP
)

// TransportTypeParse converts the given string into a TransportType value.
//
// It returns the corresponding TransportType constant if the string matches
// a known transport name, or an error if the input is invalid.
func TransportTypeParse(value string) (TransportType, error) {
	var ret TransportType
	var err error
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SERIAL":
		ret = TransportTypeSerial
	case "TCP":
		ret = TransportTypeTCP
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the transport type.
// It satisfies fmt.Stringer.
func (g TransportType) String() string {
	var ret string
	switch g {
	case TransportTypeSerial:
		ret = "Serial"
	case TransportTypeTCP:
		ret = "TCP"
	}
	return ret
}
