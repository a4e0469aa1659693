package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/bsv-blockchain/utxoledger/errors"
)

type CondType uint8

const (
	CondSingleAddress    CondType = 1
	CondMultiSignAddress CondType = 2
	CondPasswordHashLock CondType = 3
	CondClaimLock        CondType = 4
	CondReclaimLock      CondType = 5
)

func (c CondType) String() string {
	switch c {
	case CondSingleAddress:
		return "P2SA"
	case CondMultiSignAddress:
		return "P2MA"
	case CondPasswordHashLock:
		return "P2PH"
	case CondClaimLock:
		return "CLAIM_LOCK"
	case CondReclaimLock:
		return "RECLAIM_LOCK"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

const maxCondPayload = 16 * 1024

// LockCondition is attached to an output and constrains who may spend it.
// The set of implementations is closed to this package.
type LockCondition interface {
	CondType() CondType
	String() string
	payload() []byte
	lock()
}

// UnlockCondition is the proof an input supplies for a lock of the same kind.
type UnlockCondition interface {
	CondType() CondType
	String() string
	payload(forHash bool) []byte
	unlock()
}

type SingleAddressLock struct {
	Owner UserID
}

// MultiSignAddressLock requires Threshold distinct signatures from PubKeys.
type MultiSignAddressLock struct {
	Threshold uint8
	PubKeys   [][]byte
}

// PasswordHashLock holds Hash(secret ‖ spender).
type PasswordHashLock struct {
	Hash chainhash.Hash
}

type ClaimLock struct {
	Height uint32
}

type ReclaimLock struct {
	Height uint32
}

// UnknownLock keeps a tag this build does not understand so that the
// evaluator can reject it explicitly.
type UnknownLock struct {
	Tag     CondType
	Payload []byte
}

func (c *SingleAddressLock) CondType() CondType    { return CondSingleAddress }
func (c *MultiSignAddressLock) CondType() CondType { return CondMultiSignAddress }
func (c *PasswordHashLock) CondType() CondType     { return CondPasswordHashLock }
func (c *ClaimLock) CondType() CondType            { return CondClaimLock }
func (c *ReclaimLock) CondType() CondType          { return CondReclaimLock }
func (c *UnknownLock) CondType() CondType          { return c.Tag }

func (*SingleAddressLock) lock()    {}
func (*MultiSignAddressLock) lock() {}
func (*PasswordHashLock) lock()     {}
func (*ClaimLock) lock()            {}
func (*ReclaimLock) lock()          {}
func (*UnknownLock) lock()          {}

func (c *SingleAddressLock) String() string {
	return fmt.Sprintf("%s{uid=%s}", c.CondType(), c.Owner)
}

func (c *MultiSignAddressLock) String() string {
	keys := make([]string, 0, len(c.PubKeys))
	for _, k := range c.PubKeys {
		keys = append(keys, hex.EncodeToString(k))
	}

	return fmt.Sprintf("%s{m=%d, keys=[%s]}", c.CondType(), c.Threshold, strings.Join(keys, ","))
}

func (c *PasswordHashLock) String() string {
	return fmt.Sprintf("%s{hash=%s}", c.CondType(), c.Hash)
}

func (c *ClaimLock) String() string {
	return fmt.Sprintf("%s{height=%d}", c.CondType(), c.Height)
}

func (c *ReclaimLock) String() string {
	return fmt.Sprintf("%s{height=%d}", c.CondType(), c.Height)
}

func (c *UnknownLock) String() string {
	return fmt.Sprintf("%s{%x}", c.Tag, c.Payload)
}

func (c *SingleAddressLock) payload() []byte {
	buf := bytes.NewBuffer(nil)
	_ = c.Owner.write(buf)

	return buf.Bytes()
}

func (c *MultiSignAddressLock) payload() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte(c.Threshold)
	_ = wire.WriteVarInt(buf, 0, uint64(len(c.PubKeys)))

	for _, k := range c.PubKeys {
		_ = wire.WriteVarBytes(buf, 0, k)
	}

	return buf.Bytes()
}

func (c *PasswordHashLock) payload() []byte {
	return c.Hash.CloneBytes()
}

func heightPayload(h uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, h)

	return b
}

func (c *ClaimLock) payload() []byte   { return heightPayload(c.Height) }
func (c *ReclaimLock) payload() []byte { return heightPayload(c.Height) }
func (c *UnknownLock) payload() []byte { return c.Payload }

// MultiSignUnlock carries DER signatures over the transaction hash.
type MultiSignUnlock struct {
	Signatures [][]byte
}

// PasswordUnlock reveals the plaintext secret of a PasswordHashLock.
type PasswordUnlock struct {
	Secret string
}

type UnknownUnlock struct {
	Tag     CondType
	Payload []byte
}

func (c *MultiSignUnlock) CondType() CondType { return CondMultiSignAddress }
func (c *PasswordUnlock) CondType() CondType  { return CondPasswordHashLock }
func (c *UnknownUnlock) CondType() CondType   { return c.Tag }

func (*MultiSignUnlock) unlock() {}
func (*PasswordUnlock) unlock()  {}
func (*UnknownUnlock) unlock()   {}

func (c *MultiSignUnlock) String() string {
	return fmt.Sprintf("%s{sigs=%d}", c.CondType(), len(c.Signatures))
}

func (c *PasswordUnlock) String() string {
	return fmt.Sprintf("%s{secret=%s}", c.CondType(), c.Secret)
}

func (c *UnknownUnlock) String() string {
	return fmt.Sprintf("%s{%x}", c.Tag, c.Payload)
}

// signatures are left out of the hashed form, they sign that hash
func (c *MultiSignUnlock) payload(forHash bool) []byte {
	buf := bytes.NewBuffer(nil)
	if forHash {
		return buf.Bytes()
	}

	_ = wire.WriteVarInt(buf, 0, uint64(len(c.Signatures)))
	for _, s := range c.Signatures {
		_ = wire.WriteVarBytes(buf, 0, s)
	}

	return buf.Bytes()
}

func (c *PasswordUnlock) payload(_ bool) []byte { return []byte(c.Secret) }
func (c *UnknownUnlock) payload(_ bool) []byte  { return c.Payload }

func writeCondition(w io.Writer, tag CondType, payload []byte) error {
	if _, err := w.Write([]byte{byte(tag)}); err != nil {
		return err
	}

	return wire.WriteVarBytes(w, 0, payload)
}

func readCondition(r io.Reader) (CondType, []byte, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return 0, nil, err
	}

	payload, err := wire.ReadVarBytes(r, 0, maxCondPayload, "condition")
	if err != nil {
		return 0, nil, err
	}

	return CondType(tag[0]), payload, nil
}

func decodeLock(tag CondType, payload []byte) (LockCondition, error) {
	r := bytes.NewReader(payload)

	switch tag {
	case CondSingleAddress:
		uid, err := readUserID(r)
		if err != nil {
			return nil, errors.NewProcessingError("invalid P2SA payload", err)
		}

		return &SingleAddressLock{Owner: uid}, nil
	case CondMultiSignAddress:
		threshold, err := r.ReadByte()
		if err != nil {
			return nil, errors.NewProcessingError("invalid P2MA payload", err)
		}

		n, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("invalid P2MA payload", err)
		}

		if n > 255 {
			return nil, errors.NewProcessingError("too many P2MA keys %d", n)
		}

		c := &MultiSignAddressLock{Threshold: threshold, PubKeys: make([][]byte, 0, n)}

		for i := uint64(0); i < n; i++ {
			k, err := wire.ReadVarBytes(r, 0, 65, "pubkey")
			if err != nil {
				return nil, errors.NewProcessingError("invalid P2MA key", err)
			}

			c.PubKeys = append(c.PubKeys, k)
		}

		return c, nil
	case CondPasswordHashLock:
		h, err := chainhash.NewHash(payload)
		if err != nil {
			return nil, errors.NewProcessingError("invalid P2PH payload", err)
		}

		return &PasswordHashLock{Hash: *h}, nil
	case CondClaimLock, CondReclaimLock:
		if len(payload) != 4 {
			return nil, errors.NewProcessingError("invalid %s payload length %d", tag, len(payload))
		}

		h := binary.LittleEndian.Uint32(payload)
		if tag == CondClaimLock {
			return &ClaimLock{Height: h}, nil
		}

		return &ReclaimLock{Height: h}, nil
	default:
		return &UnknownLock{Tag: tag, Payload: payload}, nil
	}
}

func decodeUnlock(tag CondType, payload []byte) (UnlockCondition, error) {
	switch tag {
	case CondMultiSignAddress:
		r := bytes.NewReader(payload)
		c := &MultiSignUnlock{}

		if len(payload) == 0 {
			return c, nil
		}

		n, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("invalid P2MA unlock", err)
		}

		if n > 255 {
			return nil, errors.NewProcessingError("too many P2MA signatures %d", n)
		}

		for i := uint64(0); i < n; i++ {
			s, err := wire.ReadVarBytes(r, 0, 80, "signature")
			if err != nil {
				return nil, errors.NewProcessingError("invalid P2MA signature", err)
			}

			c.Signatures = append(c.Signatures, s)
		}

		return c, nil
	case CondPasswordHashLock:
		return &PasswordUnlock{Secret: string(payload)}, nil
	default:
		return &UnknownUnlock{Tag: tag, Payload: payload}, nil
	}
}
