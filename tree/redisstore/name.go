package redisstore

import (
	"math/rand"
	"sync"
	"time"
)

// lockedRand is a source of random numbers safe for concurrent use by
// multiple goroutines, used to generate model names
type lockedRand struct {
	lock sync.Mutex
	rnd  *rand.Rand
}

var names = &lockedRand{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}

const nameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func (lr *lockedRand) name(n int) string {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	str := make([]byte, n)
	for i := range str {
		str[i] = nameChars[lr.rnd.Intn(len(nameChars))]
	}
	return string(str)
}
