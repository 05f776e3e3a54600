/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package connection

import (
	"github.com/google/uuid"
)

// ID is an opaque, globally unique (within a Manager's lifetime) identifier
// for a live or previously-live connection. It is generated by AddConnection,
// stable for the lifetime of the connection, and never reused. Equality is
// value equality so an ID can be used as a map key or compared with ==.
type ID [16]byte

// NilID is the zero value, never returned by NewID and never a valid key in
// a registry.
var NilID ID

// NewID allocates a fresh random 128-bit identifier. Collision within a
// Manager's lifetime is treated as impossible.
func NewID() ID {
	return ID(uuid.New())
}

// String renders the identifier in its textual form for use at external
// boundaries (logs, the gRPC surface, the CLI).
func (i ID) String() string {
	return uuid.UUID(i).String()
}

// ParseID parses the textual form produced by String back into an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, ErrorConfig.Error(err)
	}

	return ID(u), nil
}

// IsNil reports whether the identifier is the zero value.
func (i ID) IsNil() bool {
	return i == NilID
}
