package validator

import (
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// SignatureVerifier checks a DER signature over a 32 byte hash.
type SignatureVerifier interface {
	Verify(pubKey, hash, sig []byte) bool
}

// Secp256k1Verifier is the verifier used on chain.
type Secp256k1Verifier struct{}

func (Secp256k1Verifier) Verify(pubKey, hash, sig []byte) bool {
	if len(pubKey) == 0 || len(sig) == 0 {
		return false
	}

	pk, err := bec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}

	signature, err := bec.ParseDERSignature(sig)
	if err != nil {
		return false
	}

	return signature.Verify(hash, pk)
}

// ValidPubKey reports whether b is a compressed or uncompressed secp256k1
// point on the curve.
func ValidPubKey(b []byte) bool {
	if len(b) == 0 {
		return false
	}

	_, err := bec.ParsePubKey(b)

	return err == nil
}
