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

import "fmt"

// ErrCode is a stable code assigned to every failure the package can
// produce. Callers that need to distinguish failure kinds should switch
// on the code rather than on the message text.
type ErrCode int

const (
	ErrCodeUnknown ErrCode = 0

	// chunk type codes
	ErrCodeInvalidByte ErrCode = 1001
	ErrCodeBadFormat   ErrCode = 1002

	// chunk framing
	ErrCodeTooShort    ErrCode = 2001
	ErrCodeTruncated   ErrCode = 2002
	ErrCodeCrcMismatch ErrCode = 2003
	ErrCodeBadEncoding ErrCode = 2004

	// container
	ErrCodeMissingHeader ErrCode = 3001
	ErrCodeBadHeader     ErrCode = 3002
	ErrCodeNotFound      ErrCode = 3003
	ErrCodeBadTypeQuery  ErrCode = 3004
)

type (
	// Error is the only error type returned by the package. Code identifies
	// the failure kind, the optional fields carry details for the codes
	// that have them.
	Error struct {
		Code ErrCode

		// Byte is the offending byte for ErrCodeInvalidByte
		Byte byte

		// Expected is the CRC read from the wire and Actual is the CRC
		// computed over type+data, for ErrCodeCrcMismatch
		Expected uint32
		Actual   uint32

		// Header holds the bytes found instead of the PNG signature, for
		// ErrCodeBadHeader
		Header []byte

		msg string
	}
)

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("png error (%d)", e.Code)
	}
	return e.msg
}

// NewError creates an Error with the given code and message. It is
// exported so the layers above can report their own failures with the
// codes of this taxonomy.
func NewError(code ErrCode, msg string) *Error {
	return &Error{Code: code, msg: msg}
}

func newInvalidByteError(b byte) *Error {
	return &Error{
		Code: ErrCodeInvalidByte,
		Byte: b,
		msg:  fmt.Sprintf("invalid chunk type byte %d, valid bytes are ASCII A-Z and a-z (65-90 and 97-122)", b),
	}
}

func newCrcMismatchError(expected, actual uint32) *Error {
	return &Error{
		Code:     ErrCodeCrcMismatch,
		Expected: expected,
		Actual:   actual,
		msg:      fmt.Sprintf("crc mismatch: wire value is %d, but %d is computed over type+data", expected, actual),
	}
}

func newBadHeaderError(found []byte) *Error {
	return &Error{
		Code:   ErrCodeBadHeader,
		Header: found,
		msg:    fmt.Sprintf("invalid header %v, expected %v", found, Header),
	}
}

// GetError checks whether err was produced by this package and returns it
// typed, if so
func GetError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	pe, ok := err.(*Error)
	return pe, ok
}
