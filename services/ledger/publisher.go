package ledger

import (
	"context"
	"time"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util/kafka"
	"github.com/bsv-blockchain/utxoledger/util/retry"
)

// ReceiptPublisher sends committed receipts to Kafka, keyed by txid.
type ReceiptPublisher struct {
	logger   ulogger.Logger
	producer kafka.Producer
	retries  int
	backoff  time.Duration
}

func NewReceiptPublisher(logger ulogger.Logger, tSettings *settings.Settings, producer kafka.Producer) *ReceiptPublisher {
	retries := tSettings.Kafka.PublishRetries
	if retries < 1 {
		retries = 1
	}

	return &ReceiptPublisher{
		logger:   logger,
		producer: producer,
		retries:  retries,
		backoff:  tSettings.Kafka.RetryBackoff,
	}
}

func (p *ReceiptPublisher) Publish(ctx context.Context, receipts *model.TxReceipts) error {
	data, err := receipts.Bytes()
	if err != nil {
		return err
	}

	key := receipts.TxID.CloneBytes()

	_, err = retry.Retry(ctx, p.logger, func() (struct{}, error) {
		return struct{}{}, p.producer.Send(key, data)
	},
		retry.WithRetryCount(p.retries),
		retry.WithBackoffDurationType(p.backoff),
		retry.WithRetryable(errors.IsRetryableError),
		retry.WithMessage("[ReceiptPublisher] publishing receipts for "+receipts.TxID.String()),
	)

	return err
}

func (p *ReceiptPublisher) Close() error {
	return p.producer.Close()
}
