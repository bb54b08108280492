package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nilsmartel/hotel"
	"github.com/nilsmartel/hotel/logger"
)

// TestChurn keeps c.Live values in a Hotel and replaces a random one c.N
// times. The floor must not grow past c.Live.
func TestChurn(c Config) {

	if c.Live <= 0 {
		logger.WithPrefix("bench").WithField("live", c.Live).Error("CHURN needs Live > 0")
		return
	}

	h := hotel.WithCapacity[int64](c.Live)

	live := make([]int, 0, c.Live)
	for i := 0; i < c.Live; i++ {
		live = append(live, h.Put(int64(i)))
	}

	r := rand.New(rand.NewPCG(1, 2))

	t0 := time.Now()
	for i := int64(0); i < c.N; i++ {
		j := r.IntN(len(live))
		if _, ok := h.Take(live[j]); !ok {
			panic(fmt.Sprintf("slot %d was not occupied", live[j]))
		}
		live[j] = h.Put(i)
	}
	took := time.Since(t0)

	fmt.Println("operations:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f take+put/sec\n", float64(c.N)/took.Seconds())
	fmt.Println("floor:", h.Floor(), "live:", h.Len())

	if h.Floor() != c.Live {
		panic(fmt.Sprintf("floor grew to %d, expected %d", h.Floor(), c.Live))
	}
}
