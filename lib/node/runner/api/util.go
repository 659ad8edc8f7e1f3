package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boscoin.io/governance/lib/errors"
)

func uint64Var(r *http.Request, name string) (uint64, error) {
	s := mux.Vars(r)[name]
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData(name, s)
	}
	return n, nil
}
