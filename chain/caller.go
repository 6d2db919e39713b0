package chain

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// Caller performs read-only contract calls for order builders (nonces,
// approvals). Nothing on the fill path uses it.
type Caller struct {
	backend ethereum.ContractCaller
	close   func()
}

// NewCaller wraps any backend able to execute eth_call
func NewCaller(backend ethereum.ContractCaller) *Caller {
	return &Caller{backend: backend}
}

// DialCaller connects to an RPC endpoint
func DialCaller(ctx context.Context, rpcURL string) (*Caller, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC")
	}
	return &Caller{backend: client, close: client.Close}, nil
}

// Call packs method with args, executes it against to at the latest block and
// unpacks the outputs
func (c *Caller) Call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s", method)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s on %s", method, to.Hex())
	}

	out, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s", method)
	}
	return out, nil
}

// Close closes the underlying RPC connection, if the caller owns one
func (c *Caller) Close() {
	if c.close != nil {
		c.close()
	}
}
