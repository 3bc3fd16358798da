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

// PollMode tells the driver when a poll step is taken.
type PollMode int

const (
	// PollModeEveryTick polls once on every driver tick.
	PollModeEveryTick PollMode = iota
	// PollModeOnDataAvailable waits until the transport reports input
	// before polling.
	PollModeOnDataAvailable
)

// PollModeParse converts the given string into a PollMode value.
func PollModeParse(value string) (PollMode, error) {
	var ret PollMode
	var err error
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "EVERYTICK":
		ret = PollModeEveryTick
	case "ONDATAAVAILABLE":
		ret = PollModeOnDataAvailable
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the poll mode.
func (g PollMode) String() string {
	var ret string
	switch g {
	case PollModeEveryTick:
		ret = "EveryTick"
	case PollModeOnDataAvailable:
		ret = "OnDataAvailable"
	}
	return ret
}
