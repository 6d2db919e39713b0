package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Pre-computed type hashes using keccak256
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))
)

// EIP712Domain represents the EIP712 domain separator data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates a new EIP712Domain
func NewEIP712Domain(name, version string, chainID int64, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              name,
		Version:           version,
		ChainID:           big.NewInt(chainID),
		VerifyingContract: verifyingContract,
	}
}

// Hash computes the EIP712 domain separator hash
func (d *EIP712Domain) Hash() common.Hash {
	// typeHash ++ keccak256(name) ++ keccak256(version) ++ chainId ++ verifyingContract
	nameHash := crypto.Keccak256Hash([]byte(d.Name))
	versionHash := crypto.Keccak256Hash([]byte(d.Version))

	encoded, err := MustArguments("bytes32", "bytes32", "bytes32", "uint256", "address").Pack(
		EIP712DomainTypeHash,
		nameHash,
		versionHash,
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// HashStruct ABI-encodes values against the given solidity types and hashes
// the result. The first value is normally the struct type hash.
func HashStruct(types []string, values ...interface{}) (common.Hash, error) {
	encoded, err := MustArguments(types...).Pack(values...)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode struct")
	}
	return crypto.Keccak256Hash(encoded), nil
}

// TypedDataHash creates the final EIP712 hash to be signed:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func TypedDataHash(domain *EIP712Domain, structHash common.Hash) common.Hash {
	domainSeparator := domain.Hash()

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}

// MustArguments builds unnamed ABI arguments from solidity type names
func MustArguments(types ...string) abi.Arguments {
	arguments := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic("invalid abi type " + t + ": " + err.Error())
		}
		arguments = append(arguments, abi.Argument{Type: typ})
	}
	return arguments
}
