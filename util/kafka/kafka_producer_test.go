package kafka

import (
	"encoding/binary"
	"net/url"
	"testing"

	"github.com/IBM/sarama"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSyncProducer records messages in place of a broker connection.
type MockSyncProducer struct {
	messages []sarama.ProducerMessage
	closed   bool
	sendErr  error
	closeErr error
}

func (m *MockSyncProducer) SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error) {
	if m.sendErr != nil {
		return 0, 0, m.sendErr
	}

	m.messages = append(m.messages, *msg)

	return msg.Partition, int64(len(m.messages)), nil
}

func (m *MockSyncProducer) SendMessages(msgs []*sarama.ProducerMessage) error {
	for _, msg := range msgs {
		if _, _, err := m.SendMessage(msg); err != nil {
			return err
		}
	}

	return nil
}

func (m *MockSyncProducer) Close() error {
	m.closed = true
	return m.closeErr
}

func (m *MockSyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnFlagReady
}

func (m *MockSyncProducer) IsTransactional() bool { return false }
func (m *MockSyncProducer) BeginTxn() error       { return nil }
func (m *MockSyncProducer) CommitTxn() error      { return nil }
func (m *MockSyncProducer) AbortTxn() error       { return nil }

func (m *MockSyncProducer) AddOffsetsToTxn(map[string][]*sarama.PartitionOffsetMetadata, string) error {
	return nil
}

func (m *MockSyncProducer) AddMessageToTxn(*sarama.ConsumerMessage, string, *string) error {
	return nil
}

func TestSyncProducer_Send(t *testing.T) {
	mock := &MockSyncProducer{}
	producer := NewSyncProducer(mock, "receipts", 4)

	key := make([]byte, 32)
	binary.LittleEndian.PutUint32(key, 7)

	require.NoError(t, producer.Send(key, []byte("payload")))
	require.Len(t, mock.messages, 1)

	msg := mock.messages[0]
	assert.Equal(t, "receipts", msg.Topic)
	assert.Equal(t, int32(3), msg.Partition)

	value, err := msg.Value.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	// short keys go to partition 0
	require.NoError(t, producer.Send([]byte{1}, nil))
	assert.Equal(t, int32(0), mock.messages[1].Partition)
}

func TestSyncProducer_SendError(t *testing.T) {
	mock := &MockSyncProducer{sendErr: sarama.ErrOutOfBrokers}
	producer := NewSyncProducer(mock, "receipts", 0)

	err := producer.Send(make([]byte, 32), []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrKafkaError))
}

func TestSyncProducer_Close(t *testing.T) {
	mock := &MockSyncProducer{}
	producer := NewSyncProducer(mock, "receipts", 1)

	require.NoError(t, producer.Close())
	assert.True(t, mock.closed)

	mock.closeErr = sarama.ErrClosedClient
	require.Error(t, producer.Close())
}

func TestParseTopicURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		check   func(t *testing.T, cfg *TopicConfig)
	}{
		{name: "defaults", url: "kafka://localhost:9092/receipts", check: func(t *testing.T, cfg *TopicConfig) {
			assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
			assert.Equal(t, "receipts", cfg.Topic)
			assert.Equal(t, int32(1), cfg.Partitions)
			assert.Equal(t, int16(1), cfg.ReplicationFactor)
			assert.Equal(t, "600000", cfg.RetentionMS)
			assert.Equal(t, 1024, cfg.FlushBytes)
			assert.Equal(t, "1073741824", cfg.SegmentBytes)
		}},
		{name: "params", url: "kafka://k1:9092,k2:9092/receipts?partitions=8&replication=3&retention=1000&flush_bytes=64", check: func(t *testing.T, cfg *TopicConfig) {
			assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
			assert.Equal(t, int32(8), cfg.Partitions)
			assert.Equal(t, int16(3), cfg.ReplicationFactor)
			assert.Equal(t, "1000", cfg.RetentionMS)
			assert.Equal(t, 64, cfg.FlushBytes)
		}},
		{name: "no topic", url: "kafka://localhost:9092", wantErr: true},
		{name: "no broker", url: "kafka:///receipts", wantErr: true},
		{name: "zero partitions", url: "kafka://localhost:9092/receipts?partitions=0", wantErr: true},
		{name: "bad partitions", url: "kafka://localhost:9092/receipts?partitions=many", wantErr: true},
		{name: "replication too large", url: "kafka://localhost:9092/receipts?replication=40000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)

			cfg, err := ParseTopicURL(u)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestTopicConfig_Detail(t *testing.T) {
	u, err := url.Parse("kafka://localhost:9092/receipts?partitions=4&replication=2&retention=5000")
	require.NoError(t, err)

	cfg, err := ParseTopicURL(u)
	require.NoError(t, err)

	detail := cfg.detail()
	assert.Equal(t, int32(4), detail.NumPartitions)
	assert.Equal(t, int16(2), detail.ReplicationFactor)
	assert.Equal(t, "5000", *detail.ConfigEntries["retention.ms"])
	assert.Equal(t, "1073741824", *detail.ConfigEntries["segment.bytes"])
}
