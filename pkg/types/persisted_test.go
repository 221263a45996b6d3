package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapSharesOneRequestID(t *testing.T) {
	records := []string{"a", "b", "c"}

	persisted := Wrap(records)

	assert.Len(t, persisted, 3)
	for i, p := range persisted {
		assert.Equal(t, records[i], p.Data)
		assert.Equal(t, persisted[0].RequestID, p.RequestID)
	}
}

func TestWrapWithIDSharesGivenID(t *testing.T) {
	id := NewRequestID()

	persisted := WrapWithID([]int{1, 2}, id)

	assert.Len(t, persisted, 2)
	for _, p := range persisted {
		assert.Equal(t, id, p.RequestID)
	}
}

func TestSeparateWrapCallsNeverShareAnID(t *testing.T) {
	first := Wrap([]string{"a"})
	second := Wrap([]string{"a"})

	assert.NotEqual(t, first[0].RequestID, second[0].RequestID)
}

func TestWrapEmpty(t *testing.T) {
	persisted := Wrap([]string{})
	assert.Empty(t, persisted)
}
