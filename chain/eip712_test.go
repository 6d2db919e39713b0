package chain

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestEIP712Domain_HashMatchesTypedData(t *testing.T) {
	verifier := common.HexToAddress("0x59728544B08AB483533076417FbBB2fD0B17CE3a")
	domain := NewEIP712Domain("LooksRareExchange", "1", Mainnet, verifier)

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		Domain: apitypes.TypedDataDomain{
			Name:              "LooksRareExchange",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(Mainnet),
			VerifyingContract: verifier.Hex(),
		},
	}

	want, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		t.Fatalf("Failed to hash domain with apitypes: %v", err)
	}

	got := domain.Hash()
	if !bytes.Equal(got.Bytes(), want) {
		t.Errorf("Expected domain hash %x, got %x", want, got)
	}
}

func TestPrivateKeySigner_SignAndRecover(t *testing.T) {
	signer, err := NewPrivateKeySigner(testPrivateKey)
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}

	hash := crypto.Keccak256Hash([]byte("order"))
	signature, err := signer.SignHash(hash)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	if len(signature) != 65 {
		t.Fatalf("Expected 65 byte signature, got %d", len(signature))
	}
	if signature[64] != 27 && signature[64] != 28 {
		t.Errorf("Expected v in {27, 28}, got %d", signature[64])
	}

	recovered, err := RecoverSigner(hash, signature)
	if err != nil {
		t.Fatalf("Failed to recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("Expected %s, got %s", signer.Address().Hex(), recovered.Hex())
	}

	v, r, s, err := SplitSignature(signature)
	if err != nil {
		t.Fatalf("Failed to split signature: %v", err)
	}
	if v != signature[64] || !bytes.Equal(r[:], signature[:32]) || !bytes.Equal(s[:], signature[32:64]) {
		t.Error("Split signature does not match the input")
	}
}

func TestNewPrivateKeySigner_Invalid(t *testing.T) {
	if _, err := NewPrivateKeySigner("0x1234"); err == nil {
		t.Error("Expected error for invalid key")
	}
}

type fakeBackend struct {
	calls  int
	lastTo common.Address
	result []byte
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	f.lastTo = *msg.To
	return f.result, nil
}

func TestCaller_Call(t *testing.T) {
	const nonceABI = `[{"inputs":[{"name":"","type":"address"}],"name":"nonces","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`
	parsed := MustParseABI("nonces", nonceABI)

	encoded, err := parsed.Methods["nonces"].Outputs.Pack(big.NewInt(7))
	if err != nil {
		t.Fatalf("Failed to pack output: %v", err)
	}
	backend := &fakeBackend{result: encoded}
	caller := NewCaller(backend)
	defer caller.Close()

	target := common.HexToAddress("0x7f268357A8c2552623316e2562D90e642bB538E5")
	out, err := caller.Call(context.Background(), target, parsed, "nonces", common.HexToAddress("0x1"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	nonce := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if nonce.Int64() != 7 {
		t.Errorf("Expected nonce 7, got %s", nonce)
	}
	if backend.calls != 1 || backend.lastTo != target {
		t.Errorf("Expected one call to %s, got %d to %s", target.Hex(), backend.calls, backend.lastTo.Hex())
	}
}
