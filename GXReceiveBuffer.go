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
	"sync"
	"time"
)

// receiveBuffer collects received bytes for the synchronous Receive call.
// Append wakes up every waiter by closing the current wait channel.
type receiveBuffer struct {
	mu   sync.Mutex
	buf  []byte
	wait chan struct{}
}

func newReceiveBuffer() *receiveBuffer {
	return &receiveBuffer{wait: make(chan struct{})}
}

func (b *receiveBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.mu.Lock()
	b.buf = append(b.buf, p...)
	old := b.wait
	b.wait = make(chan struct{})
	b.mu.Unlock()
	close(old)
}

// Get removes and returns count bytes, or everything when count is -1.
func (b *receiveBuffer) Get(count int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count == -1 || count >= len(b.buf) {
		ret := b.buf
		b.buf = nil
		return ret
	}
	ret := append([]byte(nil), b.buf[:count]...)
	b.buf = b.buf[count:]
	return ret
}

// Reset drops buffered bytes.
func (b *receiveBuffer) Reset() {
	b.mu.Lock()
	b.buf = nil
	b.mu.Unlock()
}

// Size returns the number of buffered bytes.
func (b *receiveBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Search waits until the buffer holds at least minLen bytes and, when
// pattern is set, pattern as well. It returns the number of bytes up to
// and including pattern (0 without pattern), or -1 when maxWait expires.
func (b *receiveBuffer) Search(pattern []byte, minLen int, maxWait time.Duration) int {
	if minLen < 0 {
		minLen = 0
	}
	var timeout <-chan time.Time
	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		timeout = timer.C
	}
	// Bytes before start have been searched already. Keep the last
	// len(pattern)-1 bytes since a match may straddle two appends.
	start := 0
	for {
		b.mu.Lock()
		if start > len(b.buf) {
			start = 0
		}
		if len(b.buf) >= minLen {
			if len(pattern) == 0 {
				b.mu.Unlock()
				return 0
			}
			if i := bytes.Index(b.buf[start:], pattern); i >= 0 {
				b.mu.Unlock()
				return start + i + len(pattern)
			}
			start = max(0, len(b.buf)-len(pattern)+1)
		}
		ch := b.wait
		b.mu.Unlock()

		if timeout == nil {
			return -1
		}
		select {
		case <-ch:
		case <-timeout:
			return -1
		}
	}
}
