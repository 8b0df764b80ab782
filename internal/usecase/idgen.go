package usecase

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces business order ids for sales submitted without one.
type IDGenerator interface {
	NewOrderID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewClock returns the wall clock.
func NewClock() Clock { return systemClock{} }

type timestampIDs struct {
	clock Clock
	intn  func(int) int
}

// NewIDGenerator returns a generator of ids shaped like ORD-123456-42:
// the last six digits of the unix millisecond time and a number below 100.
func NewIDGenerator(clock Clock) IDGenerator {
	return &timestampIDs{clock: clock, intn: rand.IntN}
}

func (g *timestampIDs) NewOrderID() string {
	ms := strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("ORD-%s-%d", ms, g.intn(100))
}
