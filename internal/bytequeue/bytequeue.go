// Copyright 2025 The Wirespec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bytequeue implements the zero-copy append-only byte substrate the
// parser runs over: a slice of bytes is kept as a reference into whichever
// buffer the caller handed in, never copied, across a queue of chunks
// delivered over time. A flat buffer would force an amortized copy on
// every Append as a TCP-style producer hands us chunks one at a time; a
// chunk queue keeps every payload referenced by the producer's original
// allocation and only walks the chunk list, never copies it, on read.
package bytequeue

import "bytes"

type chunkNode struct {
	data []byte
	next *chunkNode
}

// Queue is a FIFO of byte chunks supporting O(1) Append and O(k)
// SplitPrefix, where k is the number of chunks straddled by the prefix
// (not the number of bytes).
type Queue struct {
	head, tail *chunkNode
	headOffset int
	length     int
}

// New returns an empty Queue.
func New() *Queue { return &Queue{} }

// Len returns the number of unconsumed bytes currently in the queue.
func (q *Queue) Len() int { return q.length }

// Append adds chunk to the back of the queue in O(1). The queue retains
// the slice itself; it does not copy it. Appending an empty or nil chunk
// is a no-op.
func (q *Queue) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	n := &chunkNode{data: chunk}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.length += len(chunk)
}

// SplitPrefix attempts to remove the first n bytes from the queue.
//
// On success it returns (view, 0): a View whose concatenated content is
// exactly those n bytes, and the queue's next read begins at byte n of
// the original content. On short read — len(q) < n — the queue is left
// completely unchanged and it returns (zero View, deficit) where
// deficit = n - len(q): the minimum number of additional bytes Append
// would need to supply before this same call could succeed.
//
// SplitPrefix(0) is always a no-op success returning an empty View.
func (q *Queue) SplitPrefix(n int) (View, int) {
	if n == 0 {
		return View{}, 0
	}
	if q.length < n {
		return View{}, n - q.length
	}

	var parts [][]byte
	remaining := n
	for remaining > 0 {
		c := q.head
		avail := len(c.data) - q.headOffset
		if avail <= remaining {
			parts = append(parts, c.data[q.headOffset:])
			remaining -= avail
			q.head = c.next
			q.headOffset = 0
			if q.head == nil {
				q.tail = nil
			}
		} else {
			parts = append(parts, c.data[q.headOffset:q.headOffset+remaining])
			q.headOffset += remaining
			remaining = 0
		}
	}
	q.length -= n
	return View{parts: parts}, 0
}

// PeekAll returns a View over every unconsumed byte in the queue without
// removing anything, for Parser.Remaining-style introspection.
func (q *Queue) PeekAll() View {
	if q.length == 0 {
		return View{}
	}
	parts := make([][]byte, 0, 4)
	for c, first := q.head, true; c != nil; c = c.next {
		if first {
			parts = append(parts, c.data[q.headOffset:])
			first = false
		} else {
			parts = append(parts, c.data)
		}
	}
	return View{parts: parts}
}

// Equal reports whether q and o have identical remaining content,
// comparing byte-for-byte across chunk boundaries rather than comparing
// chunk layout: a queue fed as [[1,2,3],[4,5]] equals one fed as
// [[1,2],[3,4,5]].
func (q *Queue) Equal(o *Queue) bool {
	if q.length != o.length {
		return false
	}
	ac, aoff := q.head, q.headOffset
	bc, boff := o.head, o.headOffset
	for ac != nil || bc != nil {
		if ac == nil || bc == nil {
			return false
		}
		n := min(len(ac.data)-aoff, len(bc.data)-boff)
		if !bytes.Equal(ac.data[aoff:aoff+n], bc.data[boff:boff+n]) {
			return false
		}
		aoff += n
		boff += n
		if aoff == len(ac.data) {
			ac, aoff = ac.next, 0
		}
		if boff == len(bc.data) {
			bc, boff = bc.next, 0
		}
	}
	return true
}

// View is an opaque, possibly-discontiguous reference to bytes split off a
// Queue. It never copies the underlying chunks; Bytes linearizes on
// demand, which is the only copying path this package has, and in steady
// state (integer decode) it is bounded to at most 8 bytes.
type View struct {
	parts [][]byte
}

// Len returns the number of bytes referenced by v.
func (v View) Len() int {
	n := 0
	for _, p := range v.parts {
		n += len(p)
	}
	return n
}

// Bytes linearizes v into a single contiguous slice. If v already
// references a single chunk, the original slice is returned without
// copying.
func (v View) Bytes() []byte {
	switch len(v.parts) {
	case 0:
		return nil
	case 1:
		return v.parts[0]
	default:
		out := make([]byte, 0, v.Len())
		for _, p := range v.parts {
			out = append(out, p...)
		}
		return out
	}
}

// Equal reports content equality between two views, regardless of how
// each one is internally split across chunks.
func (v View) Equal(o View) bool {
	if v.Len() != o.Len() {
		return false
	}
	ai, aoff := 0, 0
	bi, boff := 0, 0
	for ai < len(v.parts) || bi < len(o.parts) {
		if ai >= len(v.parts) || bi >= len(o.parts) {
			return false
		}
		a, b := v.parts[ai], o.parts[bi]
		n := min(len(a)-aoff, len(b)-boff)
		if !bytes.Equal(a[aoff:aoff+n], b[boff:boff+n]) {
			return false
		}
		aoff += n
		boff += n
		if aoff == len(a) {
			ai, aoff = ai+1, 0
		}
		if boff == len(b) {
			bi, boff = bi+1, 0
		}
	}
	return true
}

// AsQueue builds a fresh Queue seeded with this view's chunks, without
// copying them. This is how [Until] hands a bounded budget of bytes to a
// nested sub-parser.
func (v View) AsQueue() *Queue {
	q := New()
	for _, p := range v.parts {
		q.Append(p)
	}
	return q
}
