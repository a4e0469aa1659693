package settings

import (
	"time"

	"github.com/bsv-blockchain/utxoledger/chaincfg"
)

// NewSettings reads settings.conf / settings_local.conf through gocore.
// Unknown networks are a deployment error and panic.
func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		panic(err)
	}

	validHeightWindow := getInt("validator_validHeightWindow", int(params.ValidHeightWindow))
	if validHeightWindow < 0 {
		validHeightWindow = 0
	}

	return &Settings{
		ClientName:     getString("clientName", "utxoledger"),
		DataFolder:     getString("dataFolder", "data"),
		Network:        network,
		ChainCfgParams: params,
		TracingEnabled: getBool("tracing_enabled", false),

		TracingCollectorURL: getURL("tracing_collector_url", ""),
		TracingSampleRate:   getFloat64("tracing_SampleRate", 0.01),

		Logger: LoggerSettings{
			Type:       getString("logger", "zerolog"),
			Level:      getString("logLevel", "INFO"),
			Pretty:     getBool("PRETTY_LOGS", true),
			File:       getString("logger_file", "utxoledger.log"),
			MaxSizeMB:  getInt("logger_file_maxSizeMB", 100),
			MaxBackups: getInt("logger_file_maxBackups", 3),
		},
		UtxoStore: UtxoStoreSettings{
			StoreURL:             getURL("utxostore", "memory://"),
			DBTimeout:            getDuration("utxostore_dbTimeout", 5*time.Second),
			PostgresMaxIdleConns: getInt("utxostore_postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("utxostore_postgresMaxOpenConns", 80),
		},
		AccountStore: AccountStoreSettings{
			StoreURL: getURL("accountstore", "memory://"),
		},
		ReceiptStore: ReceiptStoreSettings{
			StoreURL: getURL("receiptstore", "memory://"),
		},
		ChainStore: ChainStoreSettings{
			StoreURL: getURL("chainstore", "memory://"),
			TxIndex:  getBool("txindex", true),
		},
		Validator: ValidatorSettings{
			ValidHeightWindow:   uint32(validHeightWindow), //nolint:gosec // clamped above
			ResolverCacheTTL:    getDuration("validator_resolverCacheTTL", 10*time.Minute),
			ResolverCacheSize:   getInt("validator_resolverCacheSize", 10_000),
			ResolverConcurrency: getInt("validator_resolverConcurrency", 8),
			VerboseDebug:        getBool("validator_verbose_debug", false),
		},
		Kafka: KafkaSettings{
			ReceiptsURL:    getURL("kafka_receiptsConfig", ""),
			PublishRetries: getInt("kafka_publishRetries", 3),
			RetryBackoff:   getDuration("kafka_retryBackoff", 100*time.Millisecond),
		},
	}
}
