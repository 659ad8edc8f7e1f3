package api

import (
	"net/http"

	"boscoin.io/governance/lib/block"
	"boscoin.io/governance/lib/certificate"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/node/runner/api/resource"
	"boscoin.io/governance/lib/storage"
	"boscoin.io/governance/lib/version"
	"boscoin.io/governance/lib/vote"
)

func (api NetworkHandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	readFunc := func(st *storage.LevelDBBackend) (interface{}, error) {
		info := resource.NodeInfo{
			NetworkID: string(api.config.NetworkID),
			Version:   version.Version,
			PoolSize:  api.pool.Len(),
		}

		latest, err := block.GetLatestBlock(st)
		if err == nil {
			info.BlockHeight = latest.Height
			info.BlockHash = latest.Hash
			info.TotalTxs = latest.TotalTxs
		} else if !errors.Is(err, errors.BlockNotFound) {
			return nil, err
		}

		if info.Votes, err = vote.GetVoteCount(st); err != nil {
			return nil, err
		}
		if info.Authorities, err = certificate.GetAuthorityCount(st); err != nil {
			return nil, err
		}

		return info, nil
	}

	api.writeFromSnapshot(w, readFunc)
}
