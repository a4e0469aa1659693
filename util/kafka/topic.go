package kafka

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/IBM/sarama"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/utxoledger/errors"
)

// TopicConfig is what a kafka URL describes.
type TopicConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
	// RetentionMS and SegmentBytes are passed to Kafka verbatim.
	RetentionMS  string
	SegmentBytes string
	FlushBytes   int
}

func (c *TopicConfig) detail() *sarama.TopicDetail {
	return &sarama.TopicDetail{
		NumPartitions:     c.Partitions,
		ReplicationFactor: c.ReplicationFactor,
		ConfigEntries: map[string]*string{
			"retention.ms":        &c.RetentionMS,
			"delete.retention.ms": &c.RetentionMS,
			"segment.ms":          &c.RetentionMS,
			"segment.bytes":       &c.SegmentBytes,
		},
	}
}

func ParseTopicURL(u *url.URL) (*TopicConfig, error) {
	if u == nil || u.Host == "" {
		return nil, errors.NewConfigurationError("kafka url needs at least one broker")
	}

	cfg := &TopicConfig{
		Brokers:      strings.Split(u.Host, ","),
		Topic:        strings.TrimPrefix(u.Path, "/"),
		RetentionMS:  "600000",
		SegmentBytes: "1073741824",
		FlushBytes:   1024,
	}

	if cfg.Topic == "" {
		return nil, errors.NewConfigurationError("kafka url %s has no topic", u.Redacted())
	}

	q := u.Query()

	if v := q.Get("retention"); v != "" {
		cfg.RetentionMS = v
	}

	if v := q.Get("segment_bytes"); v != "" {
		cfg.SegmentBytes = v
	}

	partitions, err := uintParam(q, "partitions", 1)
	if err != nil {
		return nil, err
	}

	if partitions == 0 {
		return nil, errors.NewConfigurationError("kafka partitions must be at least 1")
	}

	if cfg.Partitions, err = safeconversion.Uint32ToInt32(partitions); err != nil {
		return nil, errors.NewConfigurationError("kafka partitions %d out of range", partitions, err)
	}

	replication, err := uintParam(q, "replication", 1)
	if err != nil {
		return nil, err
	}

	if replication == 0 || replication > math.MaxInt16 {
		return nil, errors.NewConfigurationError("kafka replication %d out of range", replication)
	}

	cfg.ReplicationFactor = int16(replication) //nolint:gosec // checked above

	flush, err := uintParam(q, "flush_bytes", 1024)
	if err != nil {
		return nil, err
	}

	cfg.FlushBytes = int(flush)

	return cfg, nil
}

func uintParam(q url.Values, key string, def uint32) (uint32, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, errors.NewConfigurationError("kafka url param %s=%q is not a number", key, v, err)
	}

	return uint32(n), nil
}
