package mangle

import (
	"crypto/md5" //nolint:gosec // fixed ABI contract, not a security boundary
	"strconv"
)

// digestBytes is how many leading digest bytes form the suffix value.
const digestBytes = 5

// Digest hashes the UTF-8 bytes of signature with MD5, reads the first five
// bytes as a big-endian unsigned 40-bit integer and renders it in lowercase
// base 36. The result has at most eight characters.
func Digest(signature string) string {
	sum := md5.Sum([]byte(signature)) //nolint:gosec
	var acc uint64
	for _, b := range sum[:digestBytes] {
		acc = acc<<8 | uint64(b)
	}
	return strconv.FormatUint(acc, 36)
}
