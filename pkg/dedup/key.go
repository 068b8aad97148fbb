package dedup

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key computes a deterministic fingerprint over the notification content.
// Fields are length-prefixed before hashing so that ("ab","c") and
// ("a","bc") never collide.
func Key(recipientID, channel, title, body string) string {
	h := sha256.New()
	for _, field := range []string{recipientID, channel, title, body} {
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(field)))
		h.Write(lenBuf[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
