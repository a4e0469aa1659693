package settings

import (
	"net/url"
	"time"

	"github.com/bsv-blockchain/utxoledger/chaincfg"
)

type LoggerSettings struct {
	Type       string
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type UtxoStoreSettings struct {
	StoreURL             *url.URL
	DBTimeout            time.Duration
	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
}

type AccountStoreSettings struct {
	StoreURL *url.URL
}

type ReceiptStoreSettings struct {
	StoreURL *url.URL
}

type ChainStoreSettings struct {
	StoreURL *url.URL
	// TxIndex must be on for prior outputs to resolve.
	TxIndex bool
}

type ValidatorSettings struct {
	ValidHeightWindow   uint32
	ResolverCacheTTL    time.Duration
	ResolverCacheSize   int
	ResolverConcurrency int
	VerboseDebug        bool
}

type KafkaSettings struct {
	ReceiptsURL    *url.URL
	PublishRetries int
	RetryBackoff   time.Duration
}

type Settings struct {
	ClientName     string
	DataFolder     string
	Network        string
	ChainCfgParams *chaincfg.Params
	TracingEnabled bool

	TracingCollectorURL *url.URL
	TracingSampleRate   float64

	Logger       LoggerSettings
	UtxoStore    UtxoStoreSettings
	AccountStore AccountStoreSettings
	ReceiptStore ReceiptStoreSettings
	ChainStore   ChainStoreSettings
	Validator    ValidatorSettings
	Kafka        KafkaSettings
}
