// Package broadcast periodically publishes newly reclaimed audit events
// to Kafka, adapted from the WAL-backed Kafka broadcaster: rather than
// replaying outbox records toward acked delivery, Broadcaster tails an
// audit.Log's Reclaimed events and republishes each one at most once per
// process lifetime, entirely off the reclamation hot path.
package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"hazptr/audit"

	"github.com/IBM/sarama"
)

// Message is the JSON payload published for one reclaimed address.
type Message struct {
	Addr      uintptr `json:"addr"`
	Timestamp int64   `json:"timestamp"`
}

// Broadcaster tails an audit.Log and republishes Reclaimed events to
// Kafka on an interval.
type Broadcaster struct {
	log      *audit.Log
	producer sarama.SyncProducer
	topic    string

	lastSeq   uint64
	published bool
}

// New constructs a Broadcaster publishing auditLog's Reclaimed events to
// topic on the given brokers.
func New(auditLog *audit.Log, brokers []string, topic string) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		log:      auditLog,
		producer: producer,
		topic:    topic,
	}, nil
}

// Start launches the periodic publish loop in a new goroutine, stopping
// it when ctx is done.
func (b *Broadcaster) Start(ctx context.Context, interval time.Duration) {
	log.Println("[broadcast] started")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := b.publishOnce(); err != nil {
					log.Printf("[broadcast] publish pass failed: %v", err)
				}
			}
		}
	}()
}

func (b *Broadcaster) publishOnce() error {
	var maxSeq uint64
	sawAny := false

	err := b.log.ScanKind(audit.Reclaimed, func(seq uint64, ev audit.Event) error {
		if b.published && seq <= b.lastSeq {
			return nil
		}
		sawAny = true
		if seq > maxSeq {
			maxSeq = seq
		}

		payload, err := json.Marshal(Message{Addr: ev.Addr, Timestamp: ev.Timestamp})
		if err != nil {
			return err
		}

		_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(payload),
		})
		return err
	})
	if err != nil {
		return err
	}
	if sawAny {
		b.lastSeq = maxSeq
		b.published = true
	}
	return nil
}

// Close closes the underlying Kafka producer.
func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
