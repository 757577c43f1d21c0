// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"code.hybscloud.com/iox"
)

// TryRead is the non-blocking counterpart to Read: on a driver exposing
// PollRead (TCP/socket transports), it returns iox.ErrWouldBlock
// immediately instead of blocking when no data is currently available,
// the same non-blocking-first contract framer.Forwarder uses for its
// underlying transport. Drivers without PollRead (files, memory
// buffers) behave exactly like Read, since they never block.
func (c *Channel) TryRead(buf []byte) (int, error) {
	if err := c.requireOpen(); err != nil {
		return -1, err
	}
	if len(c.ungetBuf) == 0 && !c.eof && !c.IsReadDataAvailable(0) {
		return 0, iox.ErrWouldBlock
	}
	return c.Read(buf)
}
