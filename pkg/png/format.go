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
	"fmt"
	"strings"
)

// String formats the chunk for humans. The rendering is a presentation
// concern only, it is not part of the wire format.
func (c *Chunk) String() string {
	return fmt.Sprintf("{type=%s, length=%d, crc=0x%08X, critical=%t, public=%t, safeToCopy=%t}",
		c.chunkType, c.length, c.crc, c.chunkType.IsCritical(), c.chunkType.IsPublic(),
		c.chunkType.IsSafeToCopy())
}

func (p *Png) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Png{header=%v, %d chunk(s)}", Header, len(p.chunks))
	for _, c := range p.chunks {
		sb.WriteString("\n\t")
		sb.WriteString(c.String())
	}
	return sb.String()
}
