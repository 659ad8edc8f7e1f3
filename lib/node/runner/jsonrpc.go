package runner

import (
	"net/http"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/governance"
	"boscoin.io/governance/lib/storage"
)

const MaxLimitWalk uint64 = 10000

type EchoArgs string
type EchoResult string

type DBHasArgs string
type DBHasResult bool

type DBGetArgs string
type DBGetResult DBItem

type DBItem struct {
	Key   string
	Value []byte
}

type DBWalkArgs struct {
	Prefix  string
	Cursor  string
	Limit   uint64
	Reverse bool
}

type DBWalkResult struct {
	Limit uint64
	Items []DBItem
}

type IsEligibleArgs struct {
	Account string
	CAHash  string
}

type IsEligibleResult bool

// jsonrpcDBApp reads the raw records of the storage.
type jsonrpcDBApp struct {
	st *storage.LevelDBBackend
}

func (j *jsonrpcDBApp) Echo(r *http.Request, args *EchoArgs, result *EchoResult) error {
	*result = EchoResult(string(*args))
	return nil
}

func (j *jsonrpcDBApp) Has(r *http.Request, args *DBHasArgs, result *DBHasResult) error {
	o, err := j.st.Has(string(*args))
	if err != nil {
		return err
	}

	*result = DBHasResult(o)
	return nil
}

func (j *jsonrpcDBApp) Get(r *http.Request, args *DBGetArgs, result *DBGetResult) error {
	o, err := j.st.GetRaw(string(*args))
	if err != nil {
		return err
	}

	*result = DBGetResult{Key: string(*args), Value: o}
	return nil
}

func (j *jsonrpcDBApp) Walk(r *http.Request, args *DBWalkArgs, result *DBWalkResult) error {
	limit := args.Limit
	if limit < 1 || limit > MaxLimitWalk {
		limit = MaxLimitWalk
	}

	collected := []DBItem{}
	err := j.st.Walk(args.Prefix, storage.NewWalkOption(args.Cursor, limit, args.Reverse), func(k, v []byte) (bool, error) {
		item := DBItem{Key: string(k), Value: make([]byte, len(v))}
		copy(item.Value, v)
		collected = append(collected, item)
		return true, nil
	})
	if err != nil {
		return err
	}

	result.Items = collected
	result.Limit = limit

	return nil
}

// jsonrpcGovernanceApp answers the read-only queries of the engine.
type jsonrpcGovernanceApp struct {
	engine *governance.Engine
}

func (j *jsonrpcGovernanceApp) IsEligible(r *http.Request, args *IsEligibleArgs, result *IsEligibleResult) error {
	caHash, err := common.ParseHash(args.CAHash)
	if err != nil {
		return err
	}

	eligible, err := j.engine.IsEligible(args.Account, caHash)
	if err != nil {
		return err
	}

	*result = IsEligibleResult(eligible)
	return nil
}

type JSONRPCServer struct {
	*rpc.Server
}

// NewJSONRPCServer serves the "DB" service over `st` and, with a non-nil
// `engine`, the "Governance" service.
func NewJSONRPCServer(st *storage.LevelDBBackend, engine *governance.Engine) *JSONRPCServer {
	s := &JSONRPCServer{Server: rpc.NewServer()}
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json;charset=UTF-8")

	s.RegisterService(&jsonrpcDBApp{st: st}, "DB")
	if engine != nil {
		s.RegisterService(&jsonrpcGovernanceApp{engine: engine}, "Governance")
	}

	return s
}

func (s *JSONRPCServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		return
	}

	s.Server.ServeHTTP(w, r)
}
