// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"sync"

	"github.com/ik5/mediakit/audio"
)

var errBadHandle = errors.New("unknown audio handle")

// handles hands decoded buffers to JavaScript as plain numbers. Zero is
// never issued.
type handles struct {
	mu   sync.Mutex
	next int
	bufs map[int]*audio.Buffer
}

func newHandles() *handles {
	return &handles{bufs: make(map[int]*audio.Buffer)}
}

func (h *handles) add(buf *audio.Buffer) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	h.bufs[h.next] = buf
	return h.next
}

func (h *handles) get(id int) (*audio.Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf, ok := h.bufs[id]
	if !ok {
		return nil, errBadHandle
	}
	return buf, nil
}

// release forgets id. Voices already playing the buffer are unaffected.
func (h *handles) release(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.bufs[id]
	delete(h.bufs, id)
	return ok
}
