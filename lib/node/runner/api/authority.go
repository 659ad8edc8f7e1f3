package api

import (
	"net/http"
	"strconv"

	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/httputils"
	"boscoin.io/governance/lib/node/runner/api/resource"
	"boscoin.io/governance/lib/storage"
)

func (api NetworkHandlerAPI) GetAuthoritiesHandler(w http.ResponseWriter, r *http.Request) {
	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	cursor, err := p.CursorUint64()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	authorities, err := certificate.GetAuthorities(api.storage, cursor, p.Limit())
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	for i := range authorities {
		rs = append(rs, resource.NewAuthority(&authorities[i]))
	}

	var next string
	if n := len(authorities); n > 0 && uint64(n) == p.Limit() {
		next = p.NextLink(strconv.FormatUint(authorities[n-1].Index, 10))
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewResourceList(rs, p.SelfLink(), next, ""))
}

func (api NetworkHandlerAPI) GetAuthorityHandler(w http.ResponseWriter, r *http.Request) {
	index, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	a, err := certificate.GetAuthorityByIndex(api.storage, index)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewAuthority(a))
}

// GetAuthorityAccountsHandler lists the accounts registered for one
// certificate authority.
func (api NetworkHandlerAPI) GetAuthorityAccountsHandler(w http.ResponseWriter, r *http.Request) {
	index, err := uint64Var(r, "id")
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		a, err := certificate.GetAuthorityByIndex(st, index)
		if err != nil {
			return nil, err
		}

		accounts, err := certificate.GetAccountsByAuthority(st, a.Hash, p.Cursor(), p.Limit())
		if err != nil {
			return nil, err
		}

		var rs []resource.Resource
		for _, account := range accounts {
			c, err := certificate.GetAccountCertificate(st, account, a.Hash)
			if err != nil {
				return nil, err
			}
			rs = append(rs, resource.NewAccountCertificate(c))
		}

		var next string
		if n := len(accounts); n > 0 && uint64(n) == p.Limit() {
			next = p.NextLink(accounts[n-1])
		}

		return resource.NewResourceList(rs, p.SelfLink(), next, ""), nil
	}

	api.writeFromSnapshot(w, readFunc)
}
