package common

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/argon2"

	"boscoin.io/governance/lib/errors"
)

const HashLength = 32

var HashSalt = []byte("governance")

// Hash is a fixed size digest. CA hashes, certificate hashes and payload
// digests are all `Hash`; the zero value never names a real record.
type Hash [HashLength]byte

var ZeroHash Hash

func BytesToHash(b []byte) (h Hash) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return
}

func ParseHash(s string) (h Hash, err error) {
	b := base58.Decode(s)
	if len(b) != HashLength {
		err = errors.InvalidHash.Clone().SetData("hash", s)
		return
	}
	copy(h[:], b)
	return
}

func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return base58.Encode(h[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}

	*h, err = ParseHash(s)
	return
}

func MakeHash(b []byte) Hash {
	return BytesToHash(argon2.Key(b, HashSalt, 3, 32*1024, 4, HashLength))
}

func MakeObjectHash(i interface{}) (h Hash, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	h = MakeHash(e)

	return
}

func MustMakeObjectHash(i interface{}) (h Hash) {
	h, _ = MakeObjectHash(i)
	return
}
