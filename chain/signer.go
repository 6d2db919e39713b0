package chain

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signer signs order digests on behalf of an account. Order builders call
// it; the router never does.
type Signer interface {
	Address() common.Address
	SignHash(hash common.Hash) ([]byte, error)
}

// PrivateKeySigner signs with an in-memory ECDSA key
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeySigner creates a signer from a hex private key, with or without 0x
func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return NewKeySigner(key), nil
}

// NewKeySigner wraps an existing ECDSA key
func NewKeySigner(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the address of the signer
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignHash signs a 32 byte digest and returns a 65 byte signature with v in {27, 28}
func (s *PrivateKeySigner) SignHash(hash common.Hash) ([]byte, error) {
	signature, err := crypto.Sign(hash.Bytes(), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign hash")
	}

	// Add recovery ID
	signature[64] += 27

	return signature, nil
}

// SplitSignature splits a 65 byte signature into v, r and s
func SplitSignature(signature []byte) (v uint8, r, s [32]byte, err error) {
	if len(signature) != 65 {
		return 0, r, s, errors.Errorf("signature must be 65 bytes, got %d", len(signature))
	}
	copy(r[:], signature[:32])
	copy(s[:], signature[32:64])
	v = signature[64]
	if v < 27 {
		v += 27
	}
	return v, r, s, nil
}

// RecoverSigner returns the address that produced signature over hash
func RecoverSigner(hash common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, errors.Errorf("signature must be 65 bytes, got %d", len(signature))
	}
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover signer")
	}
	return crypto.PubkeyToAddress(*pub), nil
}
