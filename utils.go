package nftrouter

import (
	"math/big"

	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// TotalValue sums the native value attached to txs
func TotalValue(txs []*chain.TxData) *big.Int {
	values := make([]*big.Int, 0, len(txs))
	for _, tx := range txs {
		if tx != nil {
			values = append(values, tx.ValueBig())
		}
	}
	return chain.SumValues(values...)
}

// FormatValue renders a wei amount in ether, e.g. "1.5"
func FormatValue(wei *big.Int) string {
	return chain.FormatAmount(wei, 18)
}

// Amounts returns the requested amount of each listing in order
func Amounts(listings []ListingDetails) []*big.Int {
	return amountsOf(listings)
}
