package ingest

import (
	"fmt"
	"iter"
)

// CommitType selects the durability guarantee of an ingest request.
type CommitType string

const (
	// CommitTypeUnspecified is the zero value and falls back to auto.
	CommitTypeUnspecified CommitType = "unspecified"
	// CommitTypeAuto acknowledges as soon as the records are durably queued.
	CommitTypeAuto CommitType = "auto"
	// CommitTypeWait acknowledges once the records have been committed.
	CommitTypeWait CommitType = "wait"
	// CommitTypeForce triggers an immediate commit and waits for it.
	CommitTypeForce CommitType = "force"
)

// String returns the JSON wire value of the commit type.
func (c CommitType) String() string {
	return string(c)
}

// StrName returns the canonical screaming-case name of the commit type.
func (c CommitType) StrName() string {
	switch c {
	case CommitTypeAuto:
		return "COMMIT_TYPE_AUTO"
	case CommitTypeWait:
		return "COMMIT_TYPE_WAIT"
	case CommitTypeForce:
		return "COMMIT_TYPE_FORCE"
	default:
		return "COMMIT_TYPE_UNSPECIFIED"
	}
}

// ParseCommitType parses a canonical screaming-case name into a CommitType.
func ParseCommitType(name string) (CommitType, bool) {
	switch name {
	case "COMMIT_TYPE_UNSPECIFIED":
		return CommitTypeUnspecified, true
	case "COMMIT_TYPE_AUTO":
		return CommitTypeAuto, true
	case "COMMIT_TYPE_WAIT":
		return CommitTypeWait, true
	case "COMMIT_TYPE_FORCE":
		return CommitTypeForce, true
	default:
		return CommitTypeUnspecified, false
	}
}

// DocBatch holds a batch of documents concatenated into a single buffer.
// DocLengths records the byte length of each document, in order.
type DocBatch struct {
	DocBuffer  []byte   `json:"doc_buffer"`
	DocLengths []uint32 `json:"doc_lengths"`
}

// NumDocs returns the number of documents in the batch.
func (b *DocBatch) NumDocs() int {
	return len(b.DocLengths)
}

// IsEmpty reports whether the batch contains no documents.
func (b *DocBatch) IsEmpty() bool {
	return len(b.DocLengths) == 0
}

// Validate checks that the recorded lengths account for the whole buffer.
func (b *DocBatch) Validate() error {
	return validateLengths("doc", b.DocBuffer, b.DocLengths)
}

// Docs iterates over the individual documents in the batch. The yielded
// slices alias the underlying buffer and must not be mutated. The batch must
// be valid; call Validate first on untrusted input.
func (b *DocBatch) Docs() iter.Seq[[]byte] {
	return cuts(b.DocBuffer, b.DocLengths)
}

// MRecordBatch holds a batch of encoded mrecords concatenated into a single
// buffer, the replication unit between ingestion nodes.
type MRecordBatch struct {
	MRecordBuffer  []byte   `json:"mrecord_buffer"`
	MRecordLengths []uint32 `json:"mrecord_lengths"`
}

// NumRecords returns the number of mrecords in the batch.
func (b *MRecordBatch) NumRecords() int {
	return len(b.MRecordLengths)
}

// IsEmpty reports whether the batch contains no mrecords.
func (b *MRecordBatch) IsEmpty() bool {
	return len(b.MRecordLengths) == 0
}

// Validate checks that the recorded lengths account for the whole buffer.
func (b *MRecordBatch) Validate() error {
	return validateLengths("mrecord", b.MRecordBuffer, b.MRecordLengths)
}

// Records iterates over the individual mrecords in the batch. The yielded
// slices alias the underlying buffer and must not be mutated. The batch must
// be valid; call Validate first on untrusted input.
func (b *MRecordBatch) Records() iter.Seq[[]byte] {
	return cuts(b.MRecordBuffer, b.MRecordLengths)
}

func validateLengths(kind string, buffer []byte, lengths []uint32) error {
	var total uint64
	for _, length := range lengths {
		total += uint64(length)
	}

	if total != uint64(len(buffer)) {
		return fmt.Errorf("%s lengths sum to %d bytes, buffer holds %d", kind, total, len(buffer))
	}

	return nil
}

func cuts(buffer []byte, lengths []uint32) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		offset := uint64(0)

		for _, length := range lengths {
			end := offset + uint64(length)
			if !yield(buffer[offset:end:end]) {
				return
			}

			offset = end
		}
	}
}
