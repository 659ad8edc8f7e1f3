package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/node/runner/api/resource"
)

// GetBlockHandler finds the block by height or by hash. Blocks never
// change, so the answers are kept by the http cache.
func (api NetworkHandlerAPI) GetBlockHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var b block.Block
	var err error
	if height, perr := strconv.ParseUint(id, 10, 64); perr == nil {
		b, err = block.GetBlockByHeight(api.storage, height)
	} else {
		b, err = block.GetBlock(api.storage, id)
	}
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewBlock(b))
}
