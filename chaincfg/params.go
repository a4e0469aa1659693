package chaincfg

import (
	"sort"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
)

// FeeRule sets the minimum fee per input/output unit for one tx type and fee
// symbol, from ActivationHeight onwards.
type FeeRule struct {
	TxType           model.TxType
	FeeSymbol        string
	ActivationHeight uint32
	MinUnitFee       uint64
}

// Params defines a network by the parameters the ledger core depends on.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// UtxoActivationHeight is the first height at which conditional UTXO
	// transfers are accepted.
	UtxoActivationHeight uint32

	// CoinSymbols lists the symbols that may be moved and used to pay fees.
	// Each needs a FeeRule active from UtxoActivationHeight.
	CoinSymbols []string

	// ValidHeightWindow bounds how far a transaction's valid height may be
	// from the height it is included at.
	ValidHeightWindow uint32

	// FeeSchedule is the list of fee rules, any order.
	FeeSchedule []FeeRule
}

var MainNetParams = Params{
	Name:                 "mainnet",
	UtxoActivationHeight: 8_000_000,
	CoinSymbols:          []string{"WICC", "WUSD", "WGRT"},
	ValidHeightWindow:    500,
	FeeSchedule: []FeeRule{
		{TxType: model.UtxoTransferTx, FeeSymbol: "WICC", ActivationHeight: 8_000_000, MinUnitFee: 10_000},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WUSD", ActivationHeight: 8_000_000, MinUnitFee: 10_000},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WGRT", ActivationHeight: 8_000_000, MinUnitFee: 100_000},
	},
}

var TestNetParams = Params{
	Name:                 "testnet",
	UtxoActivationHeight: 1_000_000,
	CoinSymbols:          []string{"WICC", "WUSD", "WGRT"},
	ValidHeightWindow:    500,
	FeeSchedule: []FeeRule{
		{TxType: model.UtxoTransferTx, FeeSymbol: "WICC", ActivationHeight: 1_000_000, MinUnitFee: 10_000},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WUSD", ActivationHeight: 1_000_000, MinUnitFee: 10_000},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WGRT", ActivationHeight: 1_000_000, MinUnitFee: 100_000},
	},
}

// RegressionNetParams is used by tests and local development. Fees are low
// and the transaction type is active from genesis.
var RegressionNetParams = Params{
	Name:                 "regtest",
	UtxoActivationHeight: 0,
	CoinSymbols:          []string{"WICC", "WUSD", "WGRT"},
	ValidHeightWindow:    500,
	FeeSchedule: []FeeRule{
		{TxType: model.UtxoTransferTx, FeeSymbol: "WICC", ActivationHeight: 0, MinUnitFee: 10},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WICC", ActivationHeight: 10_000, MinUnitFee: 20},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WUSD", ActivationHeight: 0, MinUnitFee: 10},
		{TxType: model.UtxoTransferTx, FeeSymbol: "WGRT", ActivationHeight: 0, MinUnitFee: 100},
	},
}

func GetChainParams(network string) (*Params, error) {
	switch network {
	case "mainnet":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}
}

// IsCoinSymbol reports whether symbol is a known coin on this network.
func (p *Params) IsCoinSymbol(symbol string) bool {
	for _, s := range p.CoinSymbols {
		if s == symbol {
			return true
		}
	}

	return false
}

// MinUnitFee returns the rule with the highest activation height not above
// height. A missing rule is a configuration error, never a rejection.
func (p *Params) MinUnitFee(txType model.TxType, height uint32, feeSymbol string) (uint64, error) {
	rules := make([]FeeRule, 0, len(p.FeeSchedule))

	for _, r := range p.FeeSchedule {
		if r.TxType == txType && r.FeeSymbol == feeSymbol && r.ActivationHeight <= height {
			rules = append(rules, r)
		}
	}

	if len(rules) == 0 {
		return 0, errors.NewConfigurationError("[%s] no fee rule for %s/%s at height %d", p.Name, txType, feeSymbol, height)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ActivationHeight > rules[j].ActivationHeight
	})

	return rules[0].MinUnitFee, nil
}
