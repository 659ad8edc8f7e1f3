package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"boscoin.io/governance/lib/block"
)

type Block struct {
	b block.Block
}

func NewBlock(b block.Block) *Block {
	return &Block{b: b}
}

func (blk Block) GetMap() hal.Entry {
	b := blk.b
	return hal.Entry{
		"hash":         b.Hash,
		"height":       b.Height,
		"prev_hash":    b.PrevHash,
		"confirmed":    b.Confirmed,
		"total_txs":    b.TotalTxs,
		"transactions": b.Transactions,
	}
}

func (blk Block) Resource() *hal.Resource {
	r := hal.NewResource(blk, blk.LinkSelf())
	if blk.b.Height > block.GenesisHeight {
		r.AddLink("prev", hal.NewLink(replaceID(URLBlocks, strconv.FormatUint(blk.b.Height-1, 10))))
	}
	return r
}

func (blk Block) LinkSelf() string {
	return replaceID(URLBlocks, strconv.FormatUint(blk.b.Height, 10))
}
