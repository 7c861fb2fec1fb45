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

package util

import "testing"

func TestBytesCopy(t *testing.T) {
	if BytesCopy(nil) != nil {
		t.Fatal("Copy of nil should be nil")
	}

	src := []byte{1, 2, 3}
	b := BytesCopy(src)
	src[0] = 42
	if b[0] != 1 || b[1] != 2 || b[2] != 3 {
		t.Fatal("The copy should not alias the source, but b=", b)
	}
}
