package bus

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one raw payload from the queue.
type MessageHandler interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

// Consumer subscribes to the detection queue and fans deliveries into a
// worker pool. Each message is processed under a bounded timeout; failures
// are logged and the message is dropped (the camera nodes re-emit on a
// fixed cadence).
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	handler MessageHandler
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewConsumer connects to the broker, declares the queue and starts
// numWorkers workers consuming from it.
func NewConsumer(url, queue string, handler MessageHandler, numWorkers int, timeout time.Duration) (*Consumer, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker at %s: %w", url, err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := channel.QueueDeclare(queue, false, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}
	deliveries, err := channel.Consume(queue, "", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to consume from queue %q: %w", queue, err)
	}

	c := &Consumer{
		conn:    conn,
		channel: channel,
		queue:   queue,
		handler: handler,
		timeout: timeout,
	}
	c.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go c.worker(i, deliveries)
	}
	log.Printf("Started %d ingestion worker(s) on queue %q", numWorkers, queue)
	return c, nil
}

// worker processes deliveries until the channel closes.
func (c *Consumer) worker(id int, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log.Printf("Ingestion worker %d started", id)
	for delivery := range deliveries {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		if err := c.handler.HandleMessage(ctx, delivery.Body); err != nil {
			log.Printf("Worker %d: message from queue %q discarded: %v", id, c.queue, err)
		}
		cancel()
	}
	log.Printf("Ingestion worker %d stopping: delivery channel closed", id)
}

// Stop cancels the subscription and waits for in-flight messages to drain
// before releasing the connection.
func (c *Consumer) Stop() {
	log.Println("Stopping ingestion workers...")
	if err := c.channel.Close(); err != nil {
		log.Printf("Warning: failed to close channel: %v", err)
	}
	c.wg.Wait()
	if err := c.conn.Close(); err != nil {
		log.Printf("Warning: failed to close broker connection: %v", err)
	}
	log.Println("All ingestion workers stopped")
}
