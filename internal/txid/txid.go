// Package txid generates human-readable correlation identifiers of the form
// PREFIX-yyyyMMddHHmmss-NNNNN. The sequence number comes from a single
// process-wide counter shared across all prefixes, so ids sort in generation
// order within one process. The counter resets on restart; ids are a log
// correlation aid, not a uniqueness guarantee across restarts or clock skew.
package txid

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Prefix classifies the logical operation a transaction id belongs to.
type Prefix string

// Known prefixes.
const (
	PrefixTXN Prefix = "TXN" // generic operations
	PrefixPRD Prefix = "PRD" // product lookups
	PrefixORD Prefix = "ORD" // order creation
	PrefixPAY Prefix = "PAY" // payment processing
	PrefixQRY Prefix = "QRY" // read queries
)

const timestampLayout = "20060102150405"

// Generator produces transaction ids. The zero value is not usable; construct
// with New or NewWithState.
type Generator struct {
	seq *atomic.Int64
	now func() time.Time
}

// New returns a Generator with a fresh counter starting at 1 and the system
// clock.
func New() *Generator {
	var seq atomic.Int64
	seq.Store(1)
	return &Generator{seq: &seq, now: time.Now}
}

// NewWithState returns a Generator backed by an explicit counter and clock.
// Passing the same counter to multiple generators makes them share one
// process-wide sequence; tests can seed the counter and fix the clock.
func NewWithState(seq *atomic.Int64, now func() time.Time) *Generator {
	return &Generator{seq: seq, now: now}
}

// Generate returns the next transaction id for the given prefix. The sequence
// is post-incremented atomically, so concurrent callers never observe the
// same number. Values past 99999 simply widen beyond five digits.
func (g *Generator) Generate(prefix Prefix) string {
	n := g.seq.Add(1) - 1
	return fmt.Sprintf("%s-%s-%05d", prefix, g.now().Format(timestampLayout), n)
}
