package faucet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AuthorityLabel is the seed of the mint authority.
const AuthorityLabel = "mint"

// FindAuthority returns the program-derived authority for label and its
// canonical bump, the largest bump whose address is off the ed25519 curve.
// Nobody holds a private key for it; the program signs for it by presenting
// the seeds to the runtime.
func FindAuthority(label string, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{[]byte(label)}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive authority %q: %w", label, err)
	}
	return addr, bump, nil
}

// DeriveAuthority computes the authority for an explicit bump. The same
// label, bump and program always give the same address.
func DeriveAuthority(label string, bump uint8, programID solana.PublicKey) (solana.PublicKey, error) {
	return solana.CreateProgramAddress(authoritySeeds(label, bump), programID)
}

func authoritySeeds(label string, bump uint8) [][]byte {
	return [][]byte{[]byte(label), {bump}}
}
