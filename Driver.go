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
	"context"
	"time"
)

// DefaultTick is the poll interval used when NewDriver gets no tick.
const DefaultTick = 10 * time.Millisecond

// Driver polls a GXStream from a single goroutine.
//
// GXStream is not safe for concurrent use. Other goroutines reach the media
// through Do, which runs the given function between two poll steps.
type Driver struct {
	media   *GXStream
	tick    time.Duration
	calls   chan func()
	stopped chan struct{}
}

// NewDriver creates a driver that polls media every tick.
func NewDriver(media *GXStream, tick time.Duration) *Driver {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Driver{
		media:   media,
		tick:    tick,
		calls:   make(chan func()),
		stopped: make(chan struct{}),
	}
}

// Media returns the driven media.
func (d *Driver) Media() *GXStream {
	return d.media
}

// Run polls the media until ctx is done and returns ctx.Err().
// Run must be called only once.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.stopped)
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.calls:
			fn()
			continue
		default:
		}
		if d.media.PollMode() == PollModeOnDataAvailable {
			if ready, waited := d.media.waitReadable(d.tick); waited {
				if ready {
					d.media.PollOnce()
				}
				continue
			}
		}
		d.media.PollOnce()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.calls:
			fn()
		case <-ticker.C:
		}
	}
}

// Do runs fn on the poll goroutine and returns its error.
func (d *Driver) Do(ctx context.Context, fn func(media *GXStream) error) error {
	done := make(chan error, 1)
	call := func() {
		done <- fn(d.media)
	}
	select {
	case d.calls <- call:
	case <-d.stopped:
		return ErrDriverStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
