// Example usage of the NFT router SDK
package main

import (
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/blurswap"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/cryptopunks"
)

// Market id of the CryptoPunks market on the BlurSwap aggregator (replace
// with the id registered on your deployment)
const punksMarketID = 1

func main() {
	taker := common.HexToAddress("0x00000000000000000000000000000000000000aa") // Replace with your address
	punksContract := cryptopunks.Addresses[chain.Mainnet]

	router, err := nftrouter.NewRouter(nftrouter.RouterConfig{ChainID: nftrouter.ChainIDMainnet})
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	fmt.Println("Exchanges on mainnet:")
	for _, kind := range router.Kinds() {
		f, _ := router.Filler(kind)
		fmt.Printf("  %-12s %s\n", kind, f.Address().Hex())
	}

	// Two punks offered for sale
	listings := make([]nftrouter.ListingDetails, 0, 2)
	for _, offer := range []struct{ punk, price string }{{"3100", "0x8ac7230489e80000"}, {"7804", "12000000000000000000"}} {
		order := &cryptopunks.Order{
			Maker:   "0x00000000000000000000000000000000000000bb",
			Side:    cryptopunks.SideSell,
			TokenID: offer.punk,
			Price:   offer.price,
		}
		tokenID, _ := new(big.Int).SetString(offer.punk, 10)
		listings = append(listings, nftrouter.ListingDetails{
			GenericOrder: nftrouter.NewCryptoPunksOrder(order),
			ListingFillDetails: nftrouter.ListingFillDetails{
				ContractKind: chain.ContractKindERC721,
				Contract:     punksContract,
				TokenID:      tokenID,
			},
		})
	}

	plan, err := router.Plan(listings, nil)
	if err != nil {
		log.Fatalf("Failed to plan: %v", err)
	}
	fmt.Printf("\nPlan: %d call(s)\n", len(plan.Steps))

	opts := chain.FillOptions{Referrer: "example.xyz", Deadline: time.Now().Add(time.Hour)}
	txs, err := router.FillListingsTx(taker, listings, opts)
	if err != nil {
		log.Fatalf("Failed to fill listings: %v", err)
	}
	for i, tx := range txs {
		fmt.Printf("  tx %d: to=%s value=%s ETH\n", i, tx.To.Hex(), nftrouter.FormatValue(tx.ValueBig()))
	}

	// Sweep both buys in one transaction through the aggregator
	swap, err := blurswap.NewExchange(chain.Mainnet)
	if err != nil {
		log.Fatalf("Failed to create blurswap exchange: %v", err)
	}
	trades := make([]blurswap.TradeDetails, 0, len(txs))
	for _, tx := range txs {
		trades = append(trades, blurswap.TradeFromTx(punksMarketID, tx))
	}
	total := blurswap.TotalValue(trades)
	sweep, err := swap.FillOrderTx(taker, trades, total.String(), opts)
	if err != nil {
		log.Fatalf("Failed to encode sweep: %v", err)
	}
	fmt.Printf("\nSweep: to=%s value=%s ETH calldata=%d bytes\n", sweep.To.Hex(), nftrouter.FormatValue(sweep.ValueBig()), len(sweep.Data))

	// The same fill through a running nftrouterd
	client := nftrouter.NewAPIClient("http://localhost:8080") // Replace with your daemon address
	resp, err := client.FillListings(taker, listings, opts)
	if err != nil {
		log.Printf("Daemon fill failed: %v", err)
		return
	}
	fmt.Printf("\nDaemon: %d tx(s), total value %s wei\n", len(resp.Txs), resp.TotalValue)
}
