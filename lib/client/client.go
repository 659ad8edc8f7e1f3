package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/transaction"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlNode              = "/"
	UrlTransactions      = "/transactions"
	UrlTransactionByHash = "/transactions/{id}"
	UrlVotes             = "/votes"
	UrlVote              = "/votes/{id}"
	UrlVoteResult        = "/votes/{id}/result"
	UrlVoteBallots       = "/votes/{id}/ballots"
	UrlVoteLocks         = "/votes/{id}/locks"
	UrlAccount           = "/accounts/{id}"
	UrlAccountVotes      = "/accounts/{id}/votes"
	UrlAuthorities       = "/cas"
	UrlAuthority         = "/cas/{id}"
	UrlBlock             = "/blocks/{id}"
	UrlEvents            = "/events"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
	QueryChoice  QueryKey = "choice"
	QueryType    QueryKey = "type"
	QueryVote    QueryKey = "vote"
	QueryAccount QueryKey = "account"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}

	urlValues := neturl.Values{}
	for _, q := range qs {
		urlValues.Add(q.Key.String(), q.Value)
	}
	return "?" + urlValues.Encode()
}

func replaceID(url, id string) string {
	return strings.Replace(url, "{id}", id, -1)
}

type Client struct {
	URL string

	HTTP *common.HTTP2Client
}

// NewClient retries the failed requests by `common.DefaultRetrySetting`.
func NewClient(url string) *Client {
	httpClient, err := common.NewHTTP2Client(common.DefaultHTTP2ClientConfig)
	if err != nil {
		panic(err)
	}
	return &Client{
		URL:  strings.TrimRight(url, "/"),
		HTTP: httpClient,
	}
}

func (c *Client) Close() {
	c.HTTP.Close()
}

func (c *Client) toResponse(resp *http.Response, response interface{}) (err error) {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err = decoder.Decode(&p); err != nil {
			return
		}
		if p.Status == 0 {
			p.Status = resp.StatusCode
		}
		return Error{Problem: p, RequestID: resp.Header.Get(HeaderRequestID)}
	}

	return decoder.Decode(response)
}

// HeaderRequestID is echoed by the node; a request without it gets a new
// one, so a failed request can be found in the node log.
const HeaderRequestID = "X-Request-Id"

func withRequestID(headers http.Header) http.Header {
	if headers == nil {
		headers = http.Header{}
	}
	if len(headers.Get(HeaderRequestID)) < 1 {
		headers.Set(HeaderRequestID, uuid.New().String())
	}
	return headers
}

func (c *Client) Get(path string, headers http.Header) (response *http.Response, err error) {
	return c.HTTP.Get(c.URL+UrlPrefixForAPIV1+path, withRequestID(headers))
}

func (c *Client) Post(path string, body []byte, headers http.Header) (response *http.Response, err error) {
	return c.HTTP.Post(c.URL+UrlPrefixForAPIV1+path, body, withRequestID(headers))
}

func (c *Client) load(url string, response interface{}, queries ...Q) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")

	resp, err := c.Get(url+Queries(queries).toQueryString(), headers)
	if err != nil {
		return err
	}

	return c.toResponse(resp, response)
}

func (c *Client) LoadNodeInfo() (info NodeInfo, err error) {
	err = c.load(UrlNode, &info)
	return
}

func (c *Client) LoadVote(id uint64) (vote Vote, err error) {
	err = c.load(replaceID(UrlVote, strconv.FormatUint(id, 10)), &vote)
	return
}

func (c *Client) LoadVotes(queries ...Q) (page VotesPage, err error) {
	err = c.load(UrlVotes, &page, queries...)
	return
}

func (c *Client) LoadVotesByAccount(address string, queries ...Q) (page VotesPage, err error) {
	err = c.load(replaceID(UrlAccountVotes, address), &page, queries...)
	return
}

func (c *Client) LoadVoteResult(id uint64) (result TallyResult, err error) {
	err = c.load(replaceID(UrlVoteResult, strconv.FormatUint(id, 10)), &result)
	return
}

// LoadBallots lists one side of a vote; pass `QueryChoice` for the nays.
func (c *Client) LoadBallots(id uint64, queries ...Q) (page BallotsPage, err error) {
	err = c.load(replaceID(UrlVoteBallots, strconv.FormatUint(id, 10)), &page, queries...)
	return
}

func (c *Client) LoadLockDeposits(id uint64, queries ...Q) (page LockDepositsPage, err error) {
	err = c.load(replaceID(UrlVoteLocks, strconv.FormatUint(id, 10)), &page, queries...)
	return
}

func (c *Client) LoadAccount(address string) (account Account, err error) {
	err = c.load(replaceID(UrlAccount, address), &account)
	return
}

func (c *Client) LoadAuthority(index uint64) (authority Authority, err error) {
	err = c.load(replaceID(UrlAuthority, strconv.FormatUint(index, 10)), &authority)
	return
}

func (c *Client) LoadAuthorities(queries ...Q) (page AuthoritiesPage, err error) {
	err = c.load(UrlAuthorities, &page, queries...)
	return
}

func (c *Client) LoadTransaction(hash string) (tx Transaction, err error) {
	err = c.load(replaceID(UrlTransactionByHash, hash), &tx)
	return
}

// LoadBlock finds the block by height or by hash.
func (c *Client) LoadBlock(id string) (b Block, err error) {
	err = c.load(replaceID(UrlBlock, id), &b)
	return
}

func (c *Client) SubmitTransaction(tx transaction.Transaction) (post TransactionPost, err error) {
	var body []byte
	if body, err = tx.Serialize(); err != nil {
		return
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	var resp *http.Response
	if resp, err = c.Post(UrlTransactions, body, headers); err != nil {
		return
	}

	err = c.toResponse(resp, &post)
	return
}

// Stream calls `handler` with every non-empty line of the chunked response
// until `ctx` is done or the connection is closed.
func (c *Client) Stream(ctx context.Context, url string, queries Queries, handler func(data []byte) error) (err error) {
	var request *http.Request
	if request, err = http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+url+queries.toQueryString(), nil); err != nil {
		return
	}
	request.Header.Set("Accept", "application/json")
	withRequestID(request.Header)

	var resp *http.Response
	if resp, err = c.HTTP.DoOnce(request.WithContext(ctx)); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return
	}
	if resp.StatusCode != http.StatusOK {
		return c.toResponse(resp, nil)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := handler(line); err != nil {
			return err
		}
	}
}

// StreamEvents watches the governance events; narrow them with
// `QueryType`, `QueryVote` and `QueryAccount`.
func (c *Client) StreamEvents(ctx context.Context, handler func(Event), queries ...Q) error {
	handlerFunc := func(b []byte) error {
		var v Event
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, UrlEvents, Queries(queries), handlerFunc)
}
