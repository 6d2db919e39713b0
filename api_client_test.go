package nftrouter_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/cryptopunks"
	"github.com/kaifufi/nft-router-sdk-go/internal/server"
	"github.com/pkg/errors"
)

var (
	clientTaker = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	punksMarket = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func newTestDaemon(t *testing.T) *nftrouter.APIClient {
	t.Helper()
	router, err := nftrouter.NewRouter(nftrouter.RouterConfig{ChainID: chain.Mainnet})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	ts := httptest.NewServer(server.New(router, nil, server.Options{}).Handler())
	t.Cleanup(ts.Close)
	return nftrouter.NewAPIClient(ts.URL)
}

func punkListing(punk int64, price string) nftrouter.ListingDetails {
	order := &cryptopunks.Order{
		Maker:   "0x00000000000000000000000000000000000000bb",
		Side:    cryptopunks.SideSell,
		TokenID: big.NewInt(punk).String(),
		Price:   price,
	}
	return nftrouter.ListingDetails{
		GenericOrder: nftrouter.NewCryptoPunksOrder(order),
		ListingFillDetails: nftrouter.ListingFillDetails{
			ContractKind: chain.ContractKindERC721,
			Contract:     punksMarket,
			TokenID:      big.NewInt(punk),
		},
	}
}

func TestAPIClient_GetExchanges(t *testing.T) {
	client := newTestDaemon(t)

	resp, err := client.GetExchanges()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ChainID != chain.Mainnet || len(resp.Exchanges) != len(nftrouter.AllExchangeKinds) {
		t.Fatalf("Unexpected exchanges: %+v", resp)
	}
	for _, info := range resp.Exchanges {
		if info.Kind == nftrouter.ExchangeKindCryptoPunks && info.Address != cryptopunks.Addresses[chain.Mainnet] {
			t.Errorf("Expected the punks market address, got %s", info.Address.Hex())
		}
		if info.Kind == nftrouter.ExchangeKindSudoswap && (!info.BatchListings || !info.BatchBids) {
			t.Errorf("Expected sudoswap to batch both sides, got %+v", info)
		}
	}
}

func TestAPIClient_FillListings(t *testing.T) {
	client := newTestDaemon(t)

	listings := []nftrouter.ListingDetails{punkListing(3100, "1000"), punkListing(7804, "0x10")}
	resp, err := client.FillListings(clientTaker, listings, chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(resp.Txs) != 2 || resp.TotalValue != "1016" {
		t.Fatalf("Expected 2 txs worth 1016, got %d worth %s", len(resp.Txs), resp.TotalValue)
	}
	for _, tx := range resp.Txs {
		if tx.From != clientTaker || tx.To != cryptopunks.Addresses[chain.Mainnet] {
			t.Errorf("Unexpected tx: %+v", tx)
		}
	}

	plan, err := client.Plan(clientTaker, listings, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(plan.Steps) != 2 || plan.Steps[1].Indexes[0] != 1 {
		t.Errorf("Unexpected plan: %+v", plan)
	}
}

func TestAPIClient_Error(t *testing.T) {
	client := newTestDaemon(t)

	_, err := client.FillBids(clientTaker, []nftrouter.BidDetails{}, chain.FillOptions{})
	var apiErr *nftrouter.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got: %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Msg == "" {
		t.Errorf("Unexpected error: %+v", apiErr)
	}
}
