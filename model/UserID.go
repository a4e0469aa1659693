package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-wire"
	"github.com/bsv-blockchain/utxoledger/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 needs ripemd160
)

type UserIDType uint8

const (
	UserIDNull UserIDType = iota
	UserIDRegID
	UserIDKeyID
	UserIDPubKey
)

func (t UserIDType) String() string {
	switch t {
	case UserIDRegID:
		return "regid"
	case UserIDKeyID:
		return "keyid"
	case UserIDPubKey:
		return "pubkey"
	default:
		return "null"
	}
}

// RegID is the short on-chain account id, the height and index of the
// transaction that first registered the account.
type RegID struct {
	Height uint32
	Index  uint16
}

func (r RegID) IsEmpty() bool {
	return r.Height == 0 && r.Index == 0
}

func (r RegID) String() string {
	return fmt.Sprintf("%d-%d", r.Height, r.Index)
}

// NewRegIDFromString parses the "height-index" form.
func NewRegIDFromString(s string) (RegID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return RegID{}, errors.NewInvalidArgumentError("invalid regid %q", s)
	}

	height, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return RegID{}, errors.NewInvalidArgumentError("invalid regid height %q", s, err)
	}

	index, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RegID{}, errors.NewInvalidArgumentError("invalid regid index %q", s, err)
	}

	return RegID{Height: uint32(height), Index: uint16(index)}, nil
}

// KeyID is hash160 of a compressed public key.
type KeyID [20]byte

func (k KeyID) IsEmpty() bool {
	return k == KeyID{}
}

func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

func NewKeyIDFromString(s string) (KeyID, error) {
	var k KeyID

	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(k) {
		return k, errors.NewInvalidArgumentError("invalid keyid %q", s)
	}

	copy(k[:], b)

	return k, nil
}

func KeyIDFromPubKey(pubKey []byte) KeyID {
	sha := sha256.Sum256(pubKey)

	h := ripemd160.New()
	_, _ = h.Write(sha[:])

	var k KeyID
	copy(k[:], h.Sum(nil))

	return k
}

// UserID names a transaction sender or an output owner. It holds exactly one
// of a RegID, a KeyID or a raw public key, or nothing.
type UserID struct {
	kind   UserIDType
	regID  RegID
	keyID  KeyID
	pubKey []byte
}

var NullUserID = UserID{}

func NewRegIDUser(r RegID) UserID {
	return UserID{kind: UserIDRegID, regID: r}
}

func NewKeyIDUser(k KeyID) UserID {
	return UserID{kind: UserIDKeyID, keyID: k}
}

func NewPubKeyUser(pubKey []byte) UserID {
	return UserID{kind: UserIDPubKey, pubKey: append([]byte(nil), pubKey...)}
}

// ParseUserID accepts "h-i" for a RegID, 40 hex chars for a KeyID and 66 hex
// chars for a compressed public key.
func ParseUserID(s string) (UserID, error) {
	switch {
	case s == "":
		return NullUserID, nil
	case strings.Contains(s, "-"):
		r, err := NewRegIDFromString(s)
		if err != nil {
			return NullUserID, err
		}

		return NewRegIDUser(r), nil
	case len(s) == 40:
		k, err := NewKeyIDFromString(s)
		if err != nil {
			return NullUserID, err
		}

		return NewKeyIDUser(k), nil
	default:
		b, err := hex.DecodeString(s)
		if err != nil {
			return NullUserID, errors.NewInvalidArgumentError("invalid pubkey %q", s, err)
		}

		return NewPubKeyUser(b), nil
	}
}

func (u UserID) Type() UserIDType {
	return u.kind
}

func (u UserID) RegID() (RegID, bool) {
	return u.regID, u.kind == UserIDRegID
}

func (u UserID) KeyID() (KeyID, bool) {
	return u.keyID, u.kind == UserIDKeyID
}

func (u UserID) PubKey() ([]byte, bool) {
	return u.pubKey, u.kind == UserIDPubKey
}

func (u UserID) IsEmpty() bool {
	switch u.kind {
	case UserIDRegID:
		return u.regID.IsEmpty()
	case UserIDKeyID:
		return u.keyID.IsEmpty()
	case UserIDPubKey:
		return len(u.pubKey) == 0
	default:
		return true
	}
}

// Equal compares kind and payload. A RegID and the public key of the same
// account are different identities.
func (u UserID) Equal(other UserID) bool {
	if u.kind != other.kind {
		return false
	}

	switch u.kind {
	case UserIDRegID:
		return u.regID == other.regID
	case UserIDKeyID:
		return u.keyID == other.keyID
	case UserIDPubKey:
		return bytes.Equal(u.pubKey, other.pubKey)
	default:
		return true
	}
}

func (u UserID) String() string {
	switch u.kind {
	case UserIDRegID:
		return u.regID.String()
	case UserIDKeyID:
		return u.keyID.String()
	case UserIDPubKey:
		return hex.EncodeToString(u.pubKey)
	default:
		return ""
	}
}

func (u UserID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}

	*u = parsed

	return nil
}

func (u UserID) write(w io.Writer) error {
	if _, err := w.Write([]byte{byte(u.kind)}); err != nil {
		return err
	}

	switch u.kind {
	case UserIDRegID:
		if err := wire.WriteVarInt(w, 0, uint64(u.regID.Height)); err != nil {
			return err
		}

		return wire.WriteVarInt(w, 0, uint64(u.regID.Index))
	case UserIDKeyID:
		_, err := w.Write(u.keyID[:])
		return err
	case UserIDPubKey:
		return wire.WriteVarBytes(w, 0, u.pubKey)
	}

	return nil
}

func readUserID(r io.Reader) (UserID, error) {
	var kind [1]byte
	if _, err := io.ReadFull(r, kind[:]); err != nil {
		return NullUserID, err
	}

	switch UserIDType(kind[0]) {
	case UserIDNull:
		return NullUserID, nil
	case UserIDRegID:
		height, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return NullUserID, err
		}

		index, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return NullUserID, err
		}

		if height > 0xffffffff || index > 0xffff {
			return NullUserID, errors.NewProcessingError("regid out of range %d-%d", height, index)
		}

		return NewRegIDUser(RegID{Height: uint32(height), Index: uint16(index)}), nil
	case UserIDKeyID:
		var k KeyID
		if _, err := io.ReadFull(r, k[:]); err != nil {
			return NullUserID, err
		}

		return NewKeyIDUser(k), nil
	case UserIDPubKey:
		b, err := wire.ReadVarBytes(r, 0, 65, "pubkey")
		if err != nil {
			return NullUserID, err
		}

		return UserID{kind: UserIDPubKey, pubKey: b}, nil
	default:
		return NullUserID, errors.NewProcessingError("unknown user id type %d", kind[0])
	}
}
