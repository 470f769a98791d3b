package security

import (
	"crypto/rand"
	"io"
)

const apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomBytes generates cryptographically strong bytes
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, b)
	return b, err
}

// GenerateAPIKey returns an alphanumeric key of n characters. Bytes at or
// above the rejection bound are discarded so every character stays uniform
// (256 is not a multiple of the alphabet size).
func GenerateAPIKey(n int) (string, error) {
	const bound = 256 - 256%len(apiKeyAlphabet)

	out := make([]byte, 0, n)
	for len(out) < n {
		b, err := RandomBytes(n - len(out))
		if err != nil {
			return "", err
		}
		for _, v := range b {
			if int(v) >= bound {
				continue
			}
			out = append(out, apiKeyAlphabet[int(v)%len(apiKeyAlphabet)])
		}
	}
	return string(out), nil
}
