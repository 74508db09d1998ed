package util

import (
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"
)

// InvoiceNumber converts a UUID to the numeric invoice number sent as the
// gateway reference id. FNV-1a 32-bit keeps it at ten digits or fewer and
// maps the same UUID to the same number, so a resubmitted order keeps its
// reference.
func InvoiceNumber(id uuid.UUID) string {
	h := fnv.New32a()
	h.Write(id[:])
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

// NewInvoiceNumber generates a fresh UUID and its invoice number
func NewInvoiceNumber() (uuid.UUID, string) {
	id := uuid.New()
	return id, InvoiceNumber(id)
}
