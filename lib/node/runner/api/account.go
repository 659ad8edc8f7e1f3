package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/ledger"
	"boscoin.io/governance/lib/node/runner/api/resource"
	"boscoin.io/governance/lib/storage"
)

func (api NetworkHandlerAPI) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["id"]

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		account, err := ledger.GetAccount(st, address)
		if err != nil {
			return nil, err
		}
		free, err := ledger.FreeBalance(st, address)
		if err != nil {
			return nil, err
		}
		return resource.NewAccount(account, free), nil
	}

	api.writeFromSnapshot(w, readFunc)
}

// GetAuthoritiesByAccountHandler lists the certificate bindings of an
// account.
func (api NetworkHandlerAPI) GetAuthoritiesByAccountHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["id"]

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		hashes, err := certificate.GetAuthoritiesByAccount(st, address)
		if err != nil {
			return nil, err
		}

		var rs []resource.Resource
		for _, hash := range hashes {
			c, err := certificate.GetAccountCertificate(st, address, hash)
			if err != nil {
				return nil, err
			}
			rs = append(rs, resource.NewAccountCertificate(c))
		}

		return resource.NewResourceList(rs, p.SelfLink(), "", ""), nil
	}

	api.writeFromSnapshot(w, readFunc)
}
