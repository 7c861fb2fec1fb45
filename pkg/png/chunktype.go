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

// png package contains functions and structures for working with the PNG
// chunk stream - the container structure of a PNG file. It allows to parse
// a stream of bytes into chunks, modify the chunk sequence and serialize
// it back, without touching the image data itself.
//
// See http://www.libpng.org/pub/png/spec/1.2/PNG-Structure.html
package png

import "fmt"

type (
	// ChunkType is a validated 4-byte chunk type code. Every byte is an
	// ASCII letter (A-Z or a-z) and the case of each letter encodes one
	// property bit of the chunk, see the predicates below. The value is
	// immutable once constructed.
	ChunkType struct {
		b [4]byte
	}
)

// NewChunkType constructs a ChunkType from the 4 raw bytes. It returns an
// error with the code ErrCodeInvalidByte if any of the bytes is not an
// ASCII letter.
func NewChunkType(b [4]byte) (ChunkType, error) {
	for _, c := range b {
		if !isTypeByte(c) {
			return ChunkType{}, newInvalidByteError(c)
		}
	}
	return ChunkType{b: b}, nil
}

// ParseChunkType constructs a ChunkType from its text form. The text must
// be exactly 4 ASCII characters, otherwise an error with the code
// ErrCodeBadFormat is returned.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 || !isASCII(s) {
		return ChunkType{}, NewError(ErrCodeBadFormat,
			fmt.Sprintf("chunk type %q must be exactly 4 ASCII characters", s))
	}

	var b [4]byte
	copy(b[:], s)
	return NewChunkType(b)
}

// Bytes returns the 4 raw bytes of the type code
func (ct ChunkType) Bytes() [4]byte {
	return ct.b
}

// String returns the text form of the type code. The conversion is always
// lossless, the bytes are validated as ASCII at construction.
func (ct ChunkType) String() string {
	return string(ct.b[:])
}

// IsCritical returns whether the chunk is critical for displaying the
// image (first letter is uppercase)
func (ct ChunkType) IsCritical() bool {
	return isUpper(ct.b[0])
}

// IsPublic returns whether the chunk type is a public, registered one
// (second letter is uppercase)
func (ct ChunkType) IsPublic() bool {
	return isUpper(ct.b[1])
}

// IsReservedBitValid returns whether the reserved third letter is
// uppercase, as a conformant stream requires
func (ct ChunkType) IsReservedBitValid() bool {
	return isUpper(ct.b[2])
}

// IsSafeToCopy returns whether the chunk may be copied by editors that do
// not understand it (fourth letter is lowercase)
func (ct ChunkType) IsSafeToCopy() bool {
	return !isUpper(ct.b[3])
}

// IsValid returns whether the type code is conformant: all 4 bytes are
// ASCII letters and the reserved bit is valid. A constructed ChunkType
// always passes the letter checks, so only the reserved bit can make it
// invalid.
func (ct ChunkType) IsValid() bool {
	return ct.IsReservedBitValid() &&
		isTypeByte(ct.b[0]) &&
		isTypeByte(ct.b[1]) &&
		isTypeByte(ct.b[2]) &&
		isTypeByte(ct.b[3])
}

// isTypeByte returns whether c is allowed in a type code (A-Z or a-z)
func isTypeByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isUpper(c byte) bool {
	return c&0x20 == 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
