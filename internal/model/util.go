package model

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
)

func CreateID() string {
	uuid, _ := uuid.NewRandom()
	return base58.Encode(uuid[:])
}

// IsValidID reports whether id is a well-formed entity identifier, i.e. the
// base58 encoding of a 16 byte value as produced by CreateID.
func IsValidID(id string) bool {
	return len(base58.Decode(id)) == 16
}
