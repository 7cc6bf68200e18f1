package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	a, unsubA := n.Subscribe()
	b, unsubB := n.Subscribe()
	defer unsubB()

	n.Notify()
	n.Notify()

	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	<-a

	unsubA()
	unsubA()
	_, open := <-a
	assert.False(t, open)

	n.Notify()
	assert.Len(t, b, 1)
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, n.Notify)
}
