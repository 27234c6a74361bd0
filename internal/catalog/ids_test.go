package catalog

import (
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_Next(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	g := newIDGenerator(func() time.Time { return at }, rand.New(rand.NewPCG(1, 2)))

	first := g.next()
	second := g.next()

	ts := strconv.FormatInt(at.UnixMilli(), 36)
	assert.Regexp(t, `^`+ts+`_1_[0-9a-z]{5}$`, first)
	assert.Regexp(t, `^`+ts+`_2_[0-9a-z]{5}$`, second)
	assert.NotEqual(t, first, second)
}

func TestIDGenerator_Observe(t *testing.T) {
	g := newIDGenerator(nil, nil)

	g.observe("lz1_z_abcde")
	g.observe("lz1_3_abcde")
	g.observe("not-an-id")
	assert.Equal(t, uint64(35), g.counter)

	c, ok := counterOf(g.next())
	require.True(t, ok)
	assert.Equal(t, uint64(36), c)
}

func TestCounterOf(t *testing.T) {
	testCases := []struct {
		id   string
		want uint64
		ok   bool
	}{
		{id: "mg2k1x_1_a8f3q", want: 1, ok: true},
		{id: "mg2k1x_10_a8f3q", want: 36, ok: true},
		{id: "id_que_no_existe", ok: false},
		{id: "a_b", ok: false},
		{id: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			got, ok := counterOf(tc.id)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
