package util

import (
	"math/rand"
	"time"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var src = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandStr returns a random alphabetic string of length n. Not suitable
// for anything security related, use GenerateToken for that
func RandStr(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[src.Intn(len(charset))]
	}

	return string(b)
}
