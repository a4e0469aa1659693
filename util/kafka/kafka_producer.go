// Package kafka publishes ledger events to a Kafka topic described by a URL
// of the form kafka://host1:9092,host2:9092/topic?partitions=4&replication=1
package kafka

import (
	"encoding/binary"

	"github.com/IBM/sarama"
	"github.com/bsv-blockchain/utxoledger/errors"
)

// Producer sends keyed messages. Messages with the same key keep their order.
type Producer interface {
	Send(key []byte, data []byte) error
	Close() error
}

// SyncProducer waits for every message to be acknowledged by all in-sync
// replicas before Send returns.
type SyncProducer struct {
	producer   sarama.SyncProducer
	topic      string
	partitions int32
}

func NewSyncProducer(producer sarama.SyncProducer, topic string, partitions int32) *SyncProducer {
	if partitions < 1 {
		partitions = 1
	}

	return &SyncProducer{producer: producer, topic: topic, partitions: partitions}
}

// partition maps the leading four bytes of key onto the topic's partitions.
// Keys shorter than that go to partition 0.
func (p *SyncProducer) partition(key []byte) int32 {
	if p.partitions == 1 || len(key) < 4 {
		return 0
	}

	return int32(binary.LittleEndian.Uint32(key) % uint32(p.partitions)) //nolint:gosec // result is below partitions
}

func (p *SyncProducer) Send(key []byte, data []byte) error {
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Partition: p.partition(key),
		Key:       sarama.ByteEncoder(key),
		Value:     sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return errors.NewKafkaError("send to %s/%d", p.topic, msg.Partition, err)
	}

	return nil
}

func (p *SyncProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return errors.NewServiceError("close kafka producer for %s", p.topic, err)
	}

	return nil
}

func producerConfig(flushBytes int) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = sarama.NewManualPartitioner
	config.Producer.Flush.Bytes = flushBytes

	return config
}

// Dial ensures the topic exists and connects a SyncProducer to it.
func Dial(cfg *TopicConfig) (*SyncProducer, error) {
	config := producerConfig(cfg.FlushBytes)

	if err := ensureTopic(cfg, config); err != nil {
		return nil, err
	}

	conn, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, errors.NewServiceUnavailableError("connect to kafka brokers %v", cfg.Brokers, err)
	}

	return NewSyncProducer(conn, cfg.Topic, cfg.Partitions), nil
}

func ensureTopic(cfg *TopicConfig, config *sarama.Config) error {
	admin, err := sarama.NewClusterAdmin(cfg.Brokers, config)
	if err != nil {
		return errors.NewServiceUnavailableError("connect kafka cluster admin", err)
	}

	defer func() {
		_ = admin.Close()
	}()

	err = admin.CreateTopic(cfg.Topic, cfg.detail(), false)
	if err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
		return errors.NewKafkaError("create topic %s", cfg.Topic, err)
	}

	return nil
}
