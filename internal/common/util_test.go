package common

import "testing"

func TestWipeByteArray(t *testing.T) {
	b := []byte("hunter2")
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %v", i, v)
		}
	}
}

func TestWipeByteArray_Empty(t *testing.T) {
	WipeByteArray(nil)
	WipeByteArray([]byte{})
}
