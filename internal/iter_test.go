package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2, "c": 3}

	got := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, got)

	// Early stop.
	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeq2Concat(
		maps.All(map[string]int{"z": 1, "m": 2}),
		maps.All(map[string]int{"a": 3, "z": 4}),
	)

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(seq) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]string{"a", "m", "z"}, keys)
	assert.Equal([]int{3, 2, 4}, values)
}
