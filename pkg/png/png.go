// Copyright 2018-2019 The pngrave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package png

import (
	"bytes"
	"fmt"
)

type (
	// Png is the chunk stream of a PNG file: the fixed 8-byte signature
	// followed by an ordered sequence of chunks. The order of the chunks
	// is significant and is preserved by parse and serialize exactly.
	//
	// +-----------+---------+---------+-- --+---------+
	// | signature | chunk 1 | chunk 2 | ... | chunk N |
	// +-----------+---------+---------+-- --+---------+
	//
	// The Png owns its chunk sequence. It is not safe for concurrent use,
	// the caller is supposed to own it exclusively for the duration of a
	// read-modify-write sequence.
	Png struct {
		chunks []*Chunk
	}
)

// Header is the fixed signature every PNG byte stream starts with
var Header = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// New creates an empty Png with no chunks
func New() *Png {
	return new(Png)
}

// Parse reads the whole chunk stream from buf. The signature is checked
// first (ErrCodeMissingHeader if buf is too short to hold one,
// ErrCodeBadHeader if it differs), then chunks are read one by one until
// the buffer is exhausted. Any chunk failure aborts the whole parse - the
// format describes a complete file, so no partially parsed result is ever
// returned.
func Parse(buf []byte) (*Png, error) {
	if len(buf) < len(Header) {
		return nil, NewError(ErrCodeMissingHeader,
			fmt.Sprintf("stream of %d bytes is too short to hold the %d byte PNG signature", len(buf), len(Header)))
	}

	if !bytes.Equal(buf[:len(Header)], Header[:]) {
		return nil, newBadHeaderError(buf[:len(Header)])
	}

	p := New()
	for offs := len(Header); offs < len(buf); {
		c, err := ParseChunk(buf[offs:])
		if err != nil {
			return nil, err
		}
		p.chunks = append(p.chunks, c)
		offs += c.WireSize()
	}

	return p, nil
}

// Bytes serializes the stream back to its wire form - the signature
// followed by every chunk in sequence order. It is the exact inverse of
// Parse.
func (p *Png) Bytes() []byte {
	size := len(Header)
	for _, c := range p.chunks {
		size += c.WireSize()
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Header[:]...)
	for _, c := range p.chunks {
		buf = append(buf, c.Bytes()...)
	}
	return buf
}

// Insert adds the chunk right before the last element of the sequence, or
// appends it if the sequence is empty. A well-formed PNG ends with the
// IEND chunk and this placement keeps it last without the caller having to
// find and re-append it. The position of the last element is not verified
// to actually be IEND.
func (p *Png) Insert(c *Chunk) {
	if len(p.chunks) == 0 {
		p.chunks = append(p.chunks, c)
		return
	}

	idx := len(p.chunks) - 1
	p.chunks = append(p.chunks, nil)
	copy(p.chunks[idx+1:], p.chunks[idx:])
	p.chunks[idx] = c
}

// Remove removes the first chunk of the given type from the sequence and
// returns it. It fails with ErrCodeBadTypeQuery if typeText is not a
// well-formed type code and with ErrCodeNotFound if no chunk matches.
func (p *Png) Remove(typeText string) (*Chunk, error) {
	ct, err := ParseChunkType(typeText)
	if err != nil {
		return nil, NewError(ErrCodeBadTypeQuery,
			fmt.Sprintf("cannot remove by the type %q: %s", typeText, err))
	}

	for i, c := range p.chunks {
		if c.chunkType == ct {
			p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
			return c, nil
		}
	}

	return nil, NewError(ErrCodeNotFound, fmt.Sprintf("no chunk of the type %s found", ct))
}

// ChunkByType returns the first chunk of the given type, or nil if there
// is no such chunk or typeText is not a well-formed type code. The absence
// of a match is a query result here, not an error.
func (p *Png) ChunkByType(typeText string) *Chunk {
	ct, err := ParseChunkType(typeText)
	if err != nil {
		return nil
	}

	for _, c := range p.chunks {
		if c.chunkType == ct {
			return c
		}
	}
	return nil
}

// Chunks returns the chunk sequence in its live order. The result must be
// treated as read-only.
func (p *Png) Chunks() []*Chunk {
	return p.chunks
}
