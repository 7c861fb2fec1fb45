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
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/pngrave/pngrave/pkg/util"
)

type (
	// Chunk is one record of the chunk stream. On the wire the record has
	// the following format, all integers are big-endian:
	//
	// +-------------+------------+---------------------+------------+
	// | length (4b) | type (4b)  | data (length bytes) |  crc (4b)  |
	// +-------------+------------+---------------------+------------+
	//
	// The crc field is CRC-32 (IEEE) computed over the type and data
	// fields. The Chunk owns its data exclusively and is immutable after
	// construction.
	Chunk struct {
		length    uint32
		chunkType ChunkType
		data      []byte
		crc       uint32
	}
)

const (
	// chunkHdrSize is the size of the length and type fields together
	chunkHdrSize = 8

	// crcFieldSize is the size of the trailing crc field
	crcFieldSize = 4
)

// NewChunk creates a Chunk from a type code and a payload. The length and
// crc fields are computed, so the constructed chunk is always well-formed.
// The payload is copied, the chunk does not alias the provided slice.
func NewChunk(ct ChunkType, data []byte) *Chunk {
	data = util.BytesCopy(data)
	return &Chunk{
		length:    uint32(len(data)),
		chunkType: ct,
		data:      data,
		crc:       chunkCrc(ct, data),
	}
}

// NewTextChunk creates a Chunk from the text forms of the type code and
// the payload. It is a convenience constructor for embedding text messages.
func NewTextChunk(typeText, message string) (*Chunk, error) {
	ct, err := ParseChunkType(typeText)
	if err != nil {
		return nil, err
	}
	return NewChunk(ct, []byte(message)), nil
}

// ParseChunk reads one chunk record from the beginning of buf. Bytes past
// the record are ignored, the caller can tell where the record ends by
// WireSize() of the result. The following failures are possible:
//
//	ErrCodeTooShort    - buf cannot even hold the length and type fields
//	ErrCodeInvalidByte - the type field is not 4 ASCII letters
//	ErrCodeTruncated   - buf ends before the declared data and crc fields
//	ErrCodeCrcMismatch - the crc field does not match type+data
//
// A chunk that fails the crc check is rejected wholesale, the data is
// presumed corrupted.
func ParseChunk(buf []byte) (*Chunk, error) {
	if len(buf) < chunkHdrSize {
		return nil, NewError(ErrCodeTooShort,
			fmt.Sprintf("chunk needs at least %d bytes for the length and type fields, but only %d available",
				chunkHdrSize, len(buf)))
	}

	length := binary.BigEndian.Uint32(buf)

	var tb [4]byte
	copy(tb[:], buf[4:chunkHdrSize])
	ct, err := NewChunkType(tb)
	if err != nil {
		return nil, err
	}

	if uint64(len(buf)) < uint64(chunkHdrSize)+uint64(length)+crcFieldSize {
		return nil, NewError(ErrCodeTruncated,
			fmt.Sprintf("chunk %s declares %d data bytes, but only %d bytes follow the type field",
				ct, length, len(buf)-chunkHdrSize))
	}

	data := util.BytesCopy(buf[chunkHdrSize : chunkHdrSize+int(length)])
	wireCrc := binary.BigEndian.Uint32(buf[chunkHdrSize+int(length):])

	if actual := chunkCrc(ct, data); actual != wireCrc {
		return nil, newCrcMismatchError(wireCrc, actual)
	}

	return &Chunk{length: length, chunkType: ct, data: data, crc: wireCrc}, nil
}

// Length returns the size of the data field in bytes
func (c *Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type code
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns a copy of the chunk payload. The chunk never changes
// after construction - its crc always matches its type and data - so the
// internal buffer is never handed out.
func (c *Chunk) Data() []byte {
	return util.BytesCopy(c.data)
}

// Crc returns the checksum over the type and data fields
func (c *Chunk) Crc() uint32 {
	return c.crc
}

// WireSize returns the size of the chunk record on the wire
func (c *Chunk) WireSize() int {
	return chunkHdrSize + len(c.data) + crcFieldSize
}

// Bytes serializes the chunk to its wire format. It is the exact inverse
// of ParseChunk.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, c.WireSize())
	binary.BigEndian.PutUint32(buf, c.length)
	tb := c.chunkType.Bytes()
	copy(buf[4:chunkHdrSize], tb[:])
	copy(buf[chunkHdrSize:], c.data)
	binary.BigEndian.PutUint32(buf[chunkHdrSize+len(c.data):], c.crc)
	return buf
}

// DataAsString returns the chunk payload as text. It returns an error with
// the code ErrCodeBadEncoding if the payload is not valid UTF-8, the
// conversion never replaces bytes silently.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", NewError(ErrCodeBadEncoding,
			fmt.Sprintf("data of the chunk %s is not a valid UTF-8 text", c.chunkType))
	}
	return string(c.data), nil
}

// chunkCrc computes CRC-32 (IEEE polynomial, same as zlib's crc32) over
// the type bytes followed by the data bytes
func chunkCrc(ct ChunkType, data []byte) uint32 {
	tb := ct.Bytes()
	crc := crc32.Update(0, crc32.IEEETable, tb[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}
