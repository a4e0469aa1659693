package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/services/ledger"
	"github.com/bsv-blockchain/utxoledger/services/validator"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/tracing"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	txFlag = &cli.StringFlag{
		Name:     "tx",
		Usage:    "hex encoded signed transaction",
		Required: true,
	}
	heightFlag = &cli.UintFlag{
		Name:     "height",
		Usage:    "block height the transaction is checked or executed at",
		Required: true,
	}
	indexFlag = &cli.UintFlag{
		Name:  "index",
		Usage: "position of the transaction in its block",
	}
	skipSigFlag = &cli.BoolFlag{
		Name:  "skip-signature",
		Usage: "do not verify the sender signature",
	}
)

// withLedger opens the configured stores around fn and closes them after.
func withLedger(c *cli.Context, fn func(ctx context.Context, l *ledger.Ledger) error) error {
	tSettings := settings.NewSettings()

	logger := ulogger.New(progname,
		ulogger.WithLevel(tSettings.Logger.Level),
		ulogger.WithLoggerType(tSettings.Logger.Type),
		ulogger.WithPretty(tSettings.Logger.Pretty),
		ulogger.WithFile(tSettings.Logger.File, tSettings.Logger.MaxSizeMB, tSettings.Logger.MaxBackups),
	)

	if err := tracing.InitTracer(tSettings); err != nil {
		return err
	}

	ctx := c.Context

	defer func() {
		if err := tracing.ShutdownTracer(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf("[%s] %v", progname, err)
		}
	}()

	l, err := ledger.NewFromSettings(ctx, logger, tSettings)
	if err != nil {
		return err
	}

	defer func() {
		if err := l.Close(); err != nil {
			logger.Errorf("[%s] failed to close ledger: %v", progname, err)
		}
	}()

	return fn(ctx, l)
}

func printJSON(c *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewProcessingError("failed to encode output", err)
	}

	_, err = fmt.Fprintln(c.App.Writer, string(b))

	return err
}

func readTx(c *cli.Context) (*model.Transaction, error) {
	b, err := hex.DecodeString(strings.TrimSpace(c.String(txFlag.Name)))
	if err != nil {
		return nil, errors.NewInvalidArgumentError("--tx is not hex", err)
	}

	return model.NewTransactionFromBytes(b)
}

func execContext(c *cli.Context) (ledger.ExecContext, error) {
	h, err := safeconversion.Uint64ToUint32(uint64(c.Uint(heightFlag.Name)))
	if err != nil {
		return ledger.ExecContext{}, errors.NewInvalidArgumentError("--height out of range", err)
	}

	if c.Uint(indexFlag.Name) > uint(^uint16(0)) {
		return ledger.ExecContext{}, errors.NewInvalidArgumentError("--index out of range")
	}

	return ledger.ExecContext{Height: h, TxIndex: uint16(c.Uint(indexFlag.Name))}, nil //nolint:gosec // checked above
}

// outcome prints a rejection as a result rather than failing the command.
func outcome(c *cli.Context, txid chainhash.Hash, err error, ok any) error {
	if err != nil && !errors.IsReject(err) {
		return err
	}

	res := map[string]any{"txid": txid.String()}

	if err != nil {
		res["accepted"] = false
		res["reason"] = errors.RejectReason(err)
		res["error"] = err.Error()
	} else {
		res["accepted"] = true
		if ok != nil {
			res["receipt"] = ok
		}
	}

	return printJSON(c, res)
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "generate a secp256k1 key pair and the identities derived from it",
		Action: func(c *cli.Context) error {
			priv, err := bec.NewPrivateKey()
			if err != nil {
				return errors.NewProcessingError("failed to generate key", err)
			}

			pub := priv.PubKey().Compressed()

			return printJSON(c, map[string]string{
				"private_key": hex.EncodeToString(priv.Serialize()),
				"public_key":  hex.EncodeToString(pub),
				"keyid":       model.KeyIDFromPubKey(pub).String(),
			})
		},
	}
}

func hashlockCommand() *cli.Command {
	return &cli.Command{
		Name:  "hashlock",
		Usage: "compute the password hash lock binding a secret to a spender",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", Required: true},
			&cli.StringFlag{Name: "spender", Usage: "regid, keyid or public key of the spender", Required: true},
		},
		Action: func(c *cli.Context) error {
			spender, err := model.ParseUserID(c.String("spender"))
			if err != nil {
				return err
			}

			if spender.IsEmpty() {
				return errors.NewInvalidArgumentError("--spender is empty")
			}

			_, err = fmt.Fprintln(c.App.Writer, model.PasswordHash(c.String("secret"), spender).String())

			return err
		},
	}
}

func creditCommand() *cli.Command {
	return &cli.Command{
		Name:  "credit",
		Usage: "add free balance to the account of a public key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pubkey", Required: true},
			&cli.StringFlag{Name: "symbol", Value: "WICC"},
			&cli.Uint64Flag{Name: "amount", Required: true},
		},
		Action: func(c *cli.Context) error {
			pubKey, err := hex.DecodeString(c.String("pubkey"))
			if err != nil {
				return errors.NewInvalidArgumentError("--pubkey is not hex", err)
			}

			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				acct, err := l.Credit(ctx, pubKey, c.String("symbol"), c.Uint64("amount"))
				if err != nil {
					return err
				}

				return printJSON(c, accountJSON(acct))
			})
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "run admission checks without changing any state",
		Flags: []cli.Flag{txFlag, heightFlag, skipSigFlag},
		Action: func(c *cli.Context) error {
			tx, err := readTx(c)
			if err != nil {
				return err
			}

			ec, err := execContext(c)
			if err != nil {
				return err
			}

			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				err := l.Validate(ctx, tx, ec.Height, validator.WithSkipSignatureCheck(c.Bool(skipSigFlag.Name)))
				return outcome(c, tx.Hash(), err, nil)
			})
		},
	}
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "validate and execute a transaction",
		Flags: []cli.Flag{txFlag, heightFlag, indexFlag, skipSigFlag},
		Action: func(c *cli.Context) error {
			tx, err := readTx(c)
			if err != nil {
				return err
			}

			ec, err := execContext(c)
			if err != nil {
				return err
			}

			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				r, err := l.Submit(ctx, tx, ec, validator.WithSkipSignatureCheck(c.Bool(skipSigFlag.Name)))
				if err != nil {
					return outcome(c, tx.Hash(), err, nil)
				}

				return outcome(c, tx.Hash(), nil, r)
			})
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print an executed transaction and its receipts",
		ArgsUsage: "<txid>",
		Action: func(c *cli.Context) error {
			txid, err := chainhash.NewHashFromStr(c.Args().First())
			if err != nil {
				return errors.NewInvalidArgumentError("invalid txid %q", c.Args().First(), err)
			}

			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				tx, err := l.Transaction(ctx, *txid)
				if err != nil {
					return err
				}

				out := map[string]any{"tx": tx.ToJSON()}

				receipts, err := l.Receipts(ctx, *txid)

				switch {
				case err == nil:
					out["receipts"] = receipts.Receipts
				case !errors.Is(err, errors.ErrNotFound):
					return err
				}

				return printJSON(c, out)
			})
		},
	}
}

func accountCommand() *cli.Command {
	return &cli.Command{
		Name:      "account",
		Usage:     "print an account by regid, keyid or public key",
		ArgsUsage: "<uid>",
		Action: func(c *cli.Context) error {
			uid, err := model.ParseUserID(c.Args().First())
			if err != nil {
				return err
			}

			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				acct, err := l.Account(ctx, uid)
				if err != nil {
					return err
				}

				return printJSON(c, accountJSON(acct))
			})
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check every configured store",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "liveness", Usage: "only check that the stores are running"},
		},
		Action: func(c *cli.Context) error {
			return withLedger(c, func(ctx context.Context, l *ledger.Ledger) error {
				status, msg, err := l.Health(ctx, c.Bool("liveness"))

				if _, werr := fmt.Fprintln(c.App.Writer, msg); werr != nil {
					return werr
				}

				if err != nil {
					return err
				}

				if status != http.StatusOK {
					return errors.NewServiceUnavailableError("health status %d", status)
				}

				return nil
			})
		},
	}
}

type accountOutput struct {
	KeyID       string            `json:"keyid"`
	RegID       string            `json:"regid,omitempty"`
	OwnerPubKey string            `json:"owner_pubkey,omitempty"`
	Balances    map[string]uint64 `json:"balances"`
}

func accountJSON(a *model.Account) accountOutput {
	out := accountOutput{
		KeyID:       a.KeyID.String(),
		OwnerPubKey: hex.EncodeToString(a.OwnerPubKey),
		Balances:    a.Balances,
	}

	if a.IsRegistered() {
		out.RegID = a.RegID.String()
	}

	return out
}
