package models

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// GenerateTxnID returns a version 7 UUID: the first 48 bits are the Unix
// millisecond timestamp, so ids generated at least 1ms apart sort
// chronologically. The remaining 74 bits are random.
func GenerateTxnID() string {
	ts := uint64(time.Now().UnixMilli())

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	rand.Read(b[6:])

	b[6] = 0x70 | (b[6] & 0x0f) // version 7
	b[8] = 0x80 | (b[8] & 0x3f) // RFC 4122 variant

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[:4], b[4:6], b[6:8], b[8:10], b[10:])
}
