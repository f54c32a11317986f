package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushPopRoundTrip(t *testing.T) {
	q, err := New(4, "TEST")
	require.NoError(t, err)

	msg, err := NewMessage(TypeData, []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, q.Push(msg, Infinite))

	out, err := q.Pop(Infinite)
	require.NoError(t, err)
	require.Equal(t, msg.ContentSize, out.ContentSize)
	require.Equal(t, msg.MType, out.MType)
	require.Equal(t, msg.Payload(), out.Payload())
}

func TestFIFOOrdering(t *testing.T) {
	q, err := New(8, "TEST")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		m, err := NewMessage(TypeData, []byte{byte(i)})
		require.NoError(t, err)
		require.NoError(t, q.Push(m, 0))
	}

	for i := 0; i < 5; i++ {
		m, err := q.Pop(0)
		require.NoError(t, err)
		require.Equal(t, byte(i), m.Payload()[0])
	}
}

func TestPushFullTimesOut(t *testing.T) {
	q, err := New(2, "TEST") // effective capacity 1 message (ring reserves a slot)
	require.NoError(t, err)

	m, _ := NewMessage(TypeTest, nil)
	require.NoError(t, q.Push(m, 0))

	start := time.Now()
	err = q.Push(m, 50)
	require.ErrorIs(t, err, ErrQueueFull)
	require.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestPopEmptyTimesOut(t *testing.T) {
	q, err := New(4, "TEST")
	require.NoError(t, err)

	_, err = q.Pop(0)
	require.ErrorIs(t, err, ErrQueueEmpty)
}

func TestNewMessageRejectsOversizedPayload(t *testing.T) {
	_, err := NewMessage(TypeData, make([]byte, MaxPayload+1))
	require.ErrorIs(t, err, ErrBufferOverflow)
}

func TestNewRejectsSmallCapacity(t *testing.T) {
	_, err := New(1, "TEST")
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestConcurrentProducerConsumer(t *testing.T) {
	q, err := New(4, "TEST")
	require.NoError(t, err)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m, _ := NewMessage(TypeData, []byte{byte(i)})
			require.NoError(t, q.Push(m, Infinite))
		}
	}()

	received := make([]byte, 0, n)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m, err := q.Pop(Infinite)
			require.NoError(t, err)
			received = append(received, m.Payload()[0])
		}
	}()

	wg.Wait()
	require.Len(t, received, n)
}

func TestNotEmptyNotFullEventInvariant(t *testing.T) {
	q, err := New(3, "TEST")
	require.NoError(t, err)

	require.Equal(t, 0, q.Len())
	require.False(t, q.notEmpty.IsSet())
	require.True(t, q.notFull.IsSet())

	m, _ := NewMessage(TypeTest, nil)
	require.NoError(t, q.Push(m, 0))
	require.Equal(t, 1, q.Len())
	require.LessOrEqual(t, q.Len(), q.Capacity()-1)
	require.True(t, q.notEmpty.IsSet())
	require.True(t, q.notFull.IsSet())

	require.NoError(t, q.Push(m, 0))
	require.ErrorIs(t, q.Push(m, 0), ErrQueueFull)
	require.LessOrEqual(t, q.Len(), q.Capacity()-1)
	require.True(t, q.notEmpty.IsSet())
	require.False(t, q.notFull.IsSet())
}
