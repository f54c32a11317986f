package registry

import "github.com/relaymesh/etherrelay/internal/queue"

func makeTestMessage() (queue.Message, error) {
	return queue.NewMessage(queue.TypeTest, []byte("ping"))
}
