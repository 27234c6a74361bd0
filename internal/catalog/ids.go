package catalog

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSep        = "_"
	idRandomSize = 5
)

// idGenerator builds ids of the form <millis>_<counter>_<random>, every part
// in base 36. Not safe for concurrent use; Store calls it under its lock.
type idGenerator struct {
	counter uint64
	now     func() time.Time
	rnd     *rand.Rand
}

func newIDGenerator(now func() time.Time, rnd *rand.Rand) *idGenerator {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &idGenerator{now: now, rnd: rnd}
}

func (g *idGenerator) next() string {
	g.counter++

	var b strings.Builder
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 36))
	b.WriteString(idSep)
	b.WriteString(strconv.FormatUint(g.counter, 36))
	b.WriteString(idSep)
	for range idRandomSize {
		b.WriteByte(base36[g.rnd.IntN(len(base36))])
	}
	return b.String()
}

// observe raises the counter so that it is never below the counter part of id.
func (g *idGenerator) observe(id string) {
	if c, ok := counterOf(id); ok && c > g.counter {
		g.counter = c
	}
}

func counterOf(id string) (uint64, bool) {
	parts := strings.Split(id, idSep)
	if len(parts) != 3 {
		return 0, false
	}
	c, err := strconv.ParseUint(parts[1], 36, 64)
	if err != nil {
		return 0, false
	}
	return c, true
}
