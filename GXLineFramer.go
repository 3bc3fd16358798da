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
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	// CarriageReturn terminates a line.
	CarriageReturn byte = 0x0D
	// LineFeed terminates a line.
	LineFeed byte = 0x0A
)

// FrameResult is the output of one LineFramer.Consume call.
type FrameResult struct {
	// Bytes holds every consumed byte in arrival order.
	Bytes []byte
	// Lines holds the lines completed by the consumed bytes.
	Lines []string
	// Chunk is the consumed input decoded one byte per character,
	// delimiters included. It is empty only when nothing was consumed.
	Chunk string
}

// LineFramer splits a byte stream into lines terminated by CR or LF.
//
// A delimiter that finds no pending bytes completes nothing, so CRLF
// produces one line and never an empty one. There is no line length limit:
// a peer that never sends a delimiter makes the pending buffer grow until
// Reset is called.
//
// LineFramer is not safe for concurrent use.
type LineFramer struct {
	buf []byte
}

// Feed processes one byte and returns the completed line, if any.
func (f *LineFramer) Feed(c byte) (string, bool) {
	if c == CarriageReturn || c == LineFeed {
		if len(f.buf) == 0 {
			return "", false
		}
		line := decodeLatin1(f.buf)
		// New backing array; a returned line never aliases the buffer.
		f.buf = nil
		return line, true
	}
	f.buf = append(f.buf, c)
	return "", false
}

// Consume processes raw in order.
func (f *LineFramer) Consume(raw []byte) FrameResult {
	var ret FrameResult
	if len(raw) == 0 {
		return ret
	}
	ret.Bytes = append([]byte(nil), raw...)
	for _, c := range raw {
		if line, ok := f.Feed(c); ok {
			ret.Lines = append(ret.Lines, line)
		}
	}
	ret.Chunk = decodeLatin1(raw)
	return ret
}

// Pending returns the bytes received after the last delimiter.
func (f *LineFramer) Pending() string {
	return decodeLatin1(f.buf)
}

// Reset drops the pending bytes.
func (f *LineFramer) Reset() {
	f.buf = nil
}

// decodeLatin1 maps every byte to the character with the same code point.
func decodeLatin1(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// ISO 8859-1 covers all 256 byte values, so decoding can not fail.
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(s)
}

// encodeLatin1 is the inverse of decodeLatin1. Characters outside
// ISO 8859-1 are replaced by the encoding's substitute byte.
func encodeLatin1(s string) []byte {
	b, _ := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	return b
}
