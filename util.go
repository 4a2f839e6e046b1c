package main

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"math"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	cryptorand.Read(b)
	return hex.EncodeToString(b)
}

// Alphanumeric alphabet for room codes, ambiguous glyphs removed
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRoomCode returns a random fixed-length room code
func GenerateRoomCode(n int) string {
	b := make([]byte, n)
	cryptorand.Read(b)
	for i := range b {
		b[i] = roomCodeChars[int(b[i])%len(roomCodeChars)]
	}
	return string(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeDeg wraps a heading into [0, 360)
func NormalizeDeg(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// DegToRad converts a clockwise-from-positive-x heading to radians
func DegToRad(deg float64) float64 {
	return NormalizeDeg(deg) * math.Pi / 180
}

// randFloat returns a random float64 in [0, 1) using a fast xorshift
// seeded once from crypto/rand
var randSrc uint64

func randFloat() float64 {
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%10000) / 10000.0
}

func init() {
	b := make([]byte, 8)
	_, _ = cryptorand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
