package builder

import "encoding/hex"

// hexEncode renders raw bytes as the lower-case hex string the
// miekg/dns RR types expect for their digest/fingerprint/cert fields.
func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}
