package pkg

import (
	"math/rand"
	"time"
)

// RandBetween returns a random int in [min, max].
func RandBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// RandDuration returns a random duration in [min, max].
func RandDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
