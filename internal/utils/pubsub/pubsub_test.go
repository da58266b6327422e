package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	ps := NewPubSub[int](1)
	a := ps.Subscribe()
	b := ps.Subscribe()

	ps.Publish(7)
	assert.Equal(t, 7, <-a)
	assert.Equal(t, 7, <-b)
}

func TestPublishDropsWhenFull(t *testing.T) {
	ps := NewPubSub[int](1)
	ch := ps.Subscribe()

	ps.Publish(1)
	ps.Publish(2)
	assert.Equal(t, 1, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected message %d", v)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := NewPubSub[string](0)
	ch := ps.Subscribe()
	require.Equal(t, 1, ps.Len())

	ps.Unsubscribe(ch)
	ps.Unsubscribe(ch)
	assert.Equal(t, 0, ps.Len())
	_, ok := <-ch
	assert.False(t, ok)

	ps.Publish("ignored")
}
