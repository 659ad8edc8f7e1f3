//
// Encapsulate Stellar's keypair package
//
// Account identities are stellar public addresses; a caller is
// authenticated by a signature made with the matching seed.
//
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// MakeSignature makes signature from given hash string
func MakeSignature(kp KP, networkID []byte, hash string) ([]byte, error) {
	return kp.Sign(append(networkID, []byte(hash)...))
}

// VerifySignature is the counterpart of `MakeSignature`.
func VerifySignature(address string, networkID []byte, hash string, signature []byte) error {
	kp, err := stellar.Parse(address)
	if err != nil {
		return err
	}

	return kp.Verify(append(networkID, []byte(hash)...), signature)
}

// IsAddress reports whether `s` is a public address, not a seed.
func IsAddress(s string) bool {
	kp, err := stellar.Parse(s)
	if err != nil {
		return false
	}
	_, isFull := kp.(*stellar.Full)

	return !isFull
}
