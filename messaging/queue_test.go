package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueProduceConsume(t *testing.T) {
	q := New[string](2)
	go func() {
		q.Produce("a")
		q.Produce("b")
		q.Close()
	}()
	got := q.Drain()
	assert.Equal(t, []string{"a", "b"}, got)
}
