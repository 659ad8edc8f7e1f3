package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/node/runner/api/resource"
	"boscoin.io/governance/lib/transaction"
)

// MaxTransactionBodySize bounds the body of a submitted transaction.
const MaxTransactionBodySize int64 = 64 * 1024

// PostTransactionsHandler checks the submitted transaction and puts it into
// the pool; it is applied by one of the next blocks.
func (api NetworkHandlerAPI) PostTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxTransactionBodySize))
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Wrap(err))
		return
	}

	var tx transaction.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		if e, ok := err.(*errors.Error); ok {
			httputils.WriteJSONError(w, e)
		} else {
			httputils.WriteJSONError(w, errors.BadRequestParameter.Wrap(err))
		}
		return
	}

	if err := tx.IsWellFormed(api.config); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if found, err := block.ExistsReceipt(api.storage, tx.GetHash()); err != nil {
		httputils.WriteJSONError(w, err)
		return
	} else if found {
		httputils.WriteJSONError(w, errors.TransactionAlreadyExists.Clone().SetData("hash", tx.GetHash()))
		return
	}

	if err := api.pool.Add(tx); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	log.Debug("transaction submitted", "hash", tx.GetHash(), "source", tx.Source())

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewTransactionPost(tx))
}

func (api NetworkHandlerAPI) GetTransactionByHashHandler(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["id"]

	receipt, err := block.GetReceipt(api.storage, hash)
	if err != nil {
		if errors.Is(err, errors.TransactionNotFound) {
			if tx, found := api.pool.Get(hash); found {
				httputils.MustWriteJSON(w, http.StatusOK, resource.NewTransactionPost(tx))
				return
			}
		}
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewTransaction(receipt))
}

func (api NetworkHandlerAPI) GetTransactionsByAccountHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["id"]

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	receipts, err := block.GetReceiptsBySource(api.storage, address, p.Limit(), p.Reverse())
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	for _, receipt := range receipts {
		rs = append(rs, resource.NewTransaction(receipt))
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewResourceList(rs, p.SelfLink(), "", ""))
}
