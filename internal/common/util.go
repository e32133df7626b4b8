package common

// WipeByteArray zeroes b in place so password bytes do not linger in memory
// after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
