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
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/text/message"
)

const (
	defaultBaudRate        = gxcommon.BaudRate(9600)
	defaultDataBits        = 8
	defaultReadTimeout     = 200 * time.Millisecond
	defaultWriteTimeout    = 2000 * time.Millisecond
	defaultConnectTimeout  = 10000 * time.Millisecond
	defaultMaxOpenAttempts = 5
	defaultNewLine         = "\n"
)

// Settings is the configuration record of a GXStream.
//
// The settings of an open media are applied to the live transport only
// when the media is cycled.
type Settings struct {
	// Type selects the transport.
	Type TransportType
	// Endpoint is the serial port name or host:port of the TCP peer.
	Endpoint string
	BaudRate gxcommon.BaudRate
	DataBits int
	StopBits gxcommon.StopBits
	Parity   gxcommon.Parity
	// ReadTimeout bounds a single byte read.
	ReadTimeout time.Duration
	// WriteTimeout bounds a single write.
	WriteTimeout time.Duration
	// ConnectTimeout bounds the TCP connect.
	ConnectTimeout time.Duration
	// MaxOpenAttempts is the number of immediate open attempts before
	// Open gives up.
	MaxOpenAttempts int
	PollMode        PollMode
	// AutoCycle re-opens an open media when a setting changes.
	AutoCycle bool
	// NewLine is appended by WriteLine.
	NewLine string
}

// DefaultSettings returns the settings used by NewGXStream.
func DefaultSettings() Settings {
	return Settings{
		Type:            TransportTypeSerial,
		BaudRate:        defaultBaudRate,
		DataBits:        defaultDataBits,
		StopBits:        gxcommon.StopBitsOne,
		Parity:          gxcommon.ParityNone,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		ConnectTimeout:  defaultConnectTimeout,
		MaxOpenAttempts: defaultMaxOpenAttempts,
		PollMode:        PollModeEveryTick,
		AutoCycle:       true,
		NewLine:         defaultNewLine,
	}
}

func (s *Settings) validate(p *message.Printer) error {
	if strings.TrimSpace(s.Endpoint) == "" {
		return errors.New(p.Sprintf("msg.no_endpoint_selected"))
	}
	if s.Type != TransportTypeSerial && s.Type != TransportTypeTCP {
		return fmt.Errorf("%w: transport type %d", gxcommon.ErrInvalidArgument, int(s.Type))
	}
	if s.Type == TransportTypeSerial && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("%w: data bits %d (must be 5..8)", gxcommon.ErrInvalidArgument, s.DataBits)
	}
	if s.MaxOpenAttempts < 1 {
		return fmt.Errorf("%w: max open attempts %d", gxcommon.ErrInvalidArgument, s.MaxOpenAttempts)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ConnectTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", gxcommon.ErrInvalidArgument)
	}
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// toXML writes the settings that differ from the defaults.
func (s *Settings) toXML() string {
	d := DefaultSettings()
	var b strings.Builder
	if s.Type != d.Type {
		fmt.Fprintf(&b, "<Type>%d</Type>\n", int(s.Type))
	}
	if s.Endpoint != "" {
		fmt.Fprintf(&b, "<Endpoint>%s</Endpoint>\n", xmlEscape(s.Endpoint))
	}
	if s.BaudRate != d.BaudRate {
		fmt.Fprintf(&b, "<Bps>%d</Bps>\n", int(s.BaudRate))
	}
	if s.DataBits != d.DataBits {
		fmt.Fprintf(&b, "<ByteSize>%d</ByteSize>\n", s.DataBits)
	}
	if s.StopBits != d.StopBits {
		fmt.Fprintf(&b, "<StopBits>%d</StopBits>\n", int(s.StopBits))
	}
	if s.Parity != d.Parity {
		fmt.Fprintf(&b, "<Parity>%d</Parity>\n", int(s.Parity))
	}
	if s.ReadTimeout != d.ReadTimeout {
		fmt.Fprintf(&b, "<ReadTimeout>%d</ReadTimeout>\n", s.ReadTimeout.Milliseconds())
	}
	if s.WriteTimeout != d.WriteTimeout {
		fmt.Fprintf(&b, "<WriteTimeout>%d</WriteTimeout>\n", s.WriteTimeout.Milliseconds())
	}
	if s.ConnectTimeout != d.ConnectTimeout {
		fmt.Fprintf(&b, "<ConnectTimeout>%d</ConnectTimeout>\n", s.ConnectTimeout.Milliseconds())
	}
	if s.MaxOpenAttempts != d.MaxOpenAttempts {
		fmt.Fprintf(&b, "<MaxOpenAttempts>%d</MaxOpenAttempts>\n", s.MaxOpenAttempts)
	}
	if s.PollMode != d.PollMode {
		fmt.Fprintf(&b, "<PollMode>%d</PollMode>\n", int(s.PollMode))
	}
	if !s.AutoCycle {
		b.WriteString("<AutoCycle>0</AutoCycle>\n")
	}
	if s.NewLine != d.NewLine {
		fmt.Fprintf(&b, "<NewLine>%s</NewLine>\n", xmlEscape(s.NewLine))
	}
	return b.String()
}

// fromXML reads settings written by toXML. Unknown elements are skipped.
func (s *Settings) fromXML(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	dec := xml.NewDecoder(strings.NewReader("<root>" + value + "</root>"))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local == "root" {
			continue
		}
		var raw string
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return err
		}
		v := strings.TrimSpace(raw)
		switch se.Name.Local {
		case "Type":
			n, err := atoiOr(v, func(v string) (int, error) {
				t, err := TransportTypeParse(v)
				return int(t), err
			})
			if err != nil {
				return err
			}
			s.Type = TransportType(n)
		case "Endpoint":
			s.Endpoint = v
		case "Bps":
			n, err := atoiOr(v, func(v string) (int, error) {
				br, err := gxcommon.BaudRateParse(v)
				return int(br), err
			})
			if err != nil {
				return err
			}
			s.BaudRate = gxcommon.BaudRate(n)
		case "ByteSize":
			s.DataBits, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid ByteSize value: %w", err)
			}
		case "StopBits":
			n, err := atoiOr(v, func(v string) (int, error) {
				sb, err := gxcommon.StopBitsParse(v)
				return int(sb), err
			})
			if err != nil {
				return err
			}
			s.StopBits = gxcommon.StopBits(n)
		case "Parity":
			n, err := atoiOr(v, func(v string) (int, error) {
				p, err := gxcommon.ParityParse(v)
				return int(p), err
			})
			if err != nil {
				return err
			}
			s.Parity = gxcommon.Parity(n)
		case "ReadTimeout":
			if s.ReadTimeout, err = parseMillis(se.Name.Local, v); err != nil {
				return err
			}
		case "WriteTimeout":
			if s.WriteTimeout, err = parseMillis(se.Name.Local, v); err != nil {
				return err
			}
		case "ConnectTimeout":
			if s.ConnectTimeout, err = parseMillis(se.Name.Local, v); err != nil {
				return err
			}
		case "MaxOpenAttempts":
			s.MaxOpenAttempts, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid MaxOpenAttempts value: %w", err)
			}
		case "PollMode":
			n, err := atoiOr(v, func(v string) (int, error) {
				m, err := PollModeParse(v)
				return int(m), err
			})
			if err != nil {
				return err
			}
			s.PollMode = PollMode(n)
		case "NewLine":
			// Whitespace is the value here.
			s.NewLine = raw
		case "AutoCycle":
			s.AutoCycle = v != "0" && !strings.EqualFold(v, "false")
		}
	}
	return nil
}

// atoiOr accepts either a number or a name understood by parse.
func atoiOr(v string, parse func(string) (int, error)) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	return parse(v)
}

func parseMillis(name, v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return time.Duration(n) * time.Millisecond, nil
}
