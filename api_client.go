package nftrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// APIClient talks to a running nftrouterd
type APIClient struct {
	host   string
	client *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(host string) *APIClient {
	return &APIClient{
		host: host,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-success reply from the daemon
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Msg)
}

type apiResponse struct {
	Code   int             `json:"code"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

// ExchangeInfo describes one exchange served by the daemon
type ExchangeInfo struct {
	Kind          ExchangeKind   `json:"kind"`
	ID            int            `json:"id"`
	Address       common.Address `json:"address"`
	BatchListings bool           `json:"batchListings"`
	BatchBids     bool           `json:"batchBids"`
}

// GetExchangesResponse is the reply of GET /v1/exchanges
type GetExchangesResponse struct {
	ChainID   int64          `json:"chainId"`
	Exchanges []ExchangeInfo `json:"exchanges"`
}

// FillRequestOptions is the JSON form of chain.FillOptions. Deadline is in
// unix seconds.
type FillRequestOptions struct {
	Referrer  string         `json:"referrer,omitempty"`
	Deadline  int64          `json:"deadline,omitempty"`
	Recipient common.Address `json:"recipient,omitempty"`
}

// FillRequest is the body of the fill and plan endpoints
type FillRequest struct {
	Taker    common.Address     `json:"taker"`
	Listings []ListingDetails   `json:"listings,omitempty"`
	Bids     []BidDetails       `json:"bids,omitempty"`
	Options  FillRequestOptions `json:"options"`
}

// FillResponse holds the encoded transactions of a fill
type FillResponse struct {
	Txs        []*chain.TxData `json:"txs"`
	TotalValue string          `json:"totalValue"`
}

func newFillRequestOptions(opts chain.FillOptions) FillRequestOptions {
	o := FillRequestOptions{
		Referrer:  opts.Referrer,
		Recipient: opts.Recipient,
	}
	if !opts.Deadline.IsZero() {
		o.Deadline = opts.Deadline.Unix()
	}
	return o
}

func (c *APIClient) doRequest(method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.host+endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	return resp, nil
}

// decodeJSONResponse reads the envelope and decodes its result
func (c *APIClient) decodeJSONResponse(resp *http.Response, result interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	var envelope apiResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		if resp.StatusCode != http.StatusOK {
			return &APIError{Status: resp.StatusCode, Code: resp.StatusCode, Msg: bodyStr}
		}
		return errors.Wrapf(err, "failed to decode JSON response (body: %s)", bodyStr)
	}

	if resp.StatusCode != http.StatusOK || envelope.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: envelope.Code, Msg: envelope.Msg}
	}
	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return errors.Wrap(err, "failed to decode result")
	}
	return nil
}

func (c *APIClient) call(method, endpoint string, body, result interface{}) error {
	resp, err := c.doRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decodeJSONResponse(resp, result)
}

// GetExchanges lists the exchanges the daemon can fill on its chain
func (c *APIClient) GetExchanges() (*GetExchangesResponse, error) {
	var result GetExchangesResponse
	if err := c.call(http.MethodGet, "/v1/exchanges", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Fill encodes listings and bids in one request
func (c *APIClient) Fill(taker common.Address, listings []ListingDetails, bids []BidDetails, opts chain.FillOptions) (*FillResponse, error) {
	return c.fill("/v1/fill", FillRequest{Taker: taker, Listings: listings, Bids: bids, Options: newFillRequestOptions(opts)})
}

// FillListings encodes the purchase of listings
func (c *APIClient) FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) (*FillResponse, error) {
	return c.fill("/v1/fill/listings", FillRequest{Taker: taker, Listings: listings, Options: newFillRequestOptions(opts)})
}

// FillBids encodes the sale into bids
func (c *APIClient) FillBids(taker common.Address, bids []BidDetails, opts chain.FillOptions) (*FillResponse, error) {
	return c.fill("/v1/fill/bids", FillRequest{Taker: taker, Bids: bids, Options: newFillRequestOptions(opts)})
}

func (c *APIClient) fill(endpoint string, req FillRequest) (*FillResponse, error) {
	var result FillResponse
	if err := c.call(http.MethodPost, endpoint, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Plan returns the filler calls the daemon would make, without encoding
func (c *APIClient) Plan(taker common.Address, listings []ListingDetails, bids []BidDetails) (*Plan, error) {
	var result Plan
	req := FillRequest{Taker: taker, Listings: listings, Bids: bids}
	if err := c.call(http.MethodPost, "/v1/fill/plan", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
