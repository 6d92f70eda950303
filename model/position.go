package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is an ordered offset in an ingestion shard log.
//
// The wire form is chosen so that plain lexicographic comparison matches
// log order: the beginning is the empty string, offsets are zero-padded
// decimal u64, and Eof is "~eof" (`~` sorts after every digit).
type Position string

const (
	// PositionBeginning addresses the position before the first record.
	PositionBeginning Position = ""

	// PositionEof addresses the position after the last record.
	PositionEof Position = "~eof"

	offsetDigits = 20
)

// PositionFromOffset returns the Position addressing the given record offset.
func PositionFromOffset(offset uint64) Position {
	return Position(fmt.Sprintf("%0*d", offsetDigits, offset))
}

// PositionEofAt returns the Eof position recording the offset of the last
// record, e.g. "~eof(00000000000000000042)". It compares after every plain
// offset and at-or-after the bare Eof by construction.
func PositionEofAt(offset uint64) Position {
	return Position(fmt.Sprintf("~eof(%0*d)", offsetDigits, offset))
}

// IsBeginning reports whether the position addresses the start of the log.
func (p Position) IsBeginning() bool {
	return p == PositionBeginning
}

// IsEof reports whether the position addresses the end of the log.
func (p Position) IsEof() bool {
	return strings.HasPrefix(string(p), "~eof")
}

// Offset returns the numeric offset, if the position carries one.
// Eof positions recorded with a final offset ("~eof(00...42)") expose it too.
func (p Position) Offset() (uint64, bool) {
	s := string(p)
	if eofOffset, found := strings.CutPrefix(s, "~eof("); found {
		s = strings.TrimSuffix(eofOffset, ")")
	}
	if s == "" {
		return 0, false
	}
	offset, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// Compare orders positions: Beginning < offsets (numerically) < Eof.
func (p Position) Compare(other Position) int {
	return strings.Compare(string(p), string(other))
}
