// Package statetrie verifies Ethereum Merkle-Patricia trie proofs returned
// by eth_getProof and derives the trie lookup key for an ERC-20-style
// balance mapping slot.
//
// Proof nodes authenticate against Ethereum's hexary, nibble-addressed MPT,
// so verification is delegated to go-ethereum/trie rather than re-derived:
// the proof-node hashing and node encoding rules it implements are exactly
// the ones eth_getProof's accountProof/storageProof nodes were built
// against.
package statetrie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
)

// ProofResult is the outcome of walking a proof against a claimed root.
type ProofResult struct {
	Found bool   // whether key is present under root
	Value []byte // the leaf value, if Found
}

// VerifyProof checks that the ordered proof nodes compose a valid path from
// root to key, per the C6 library contract: Found=false (not an error) means
// the key is provably absent from the trie; a non-nil error means the proof
// itself is structurally broken.
func VerifyProof(root common.Hash, key []byte, proof [][]byte) (ProofResult, error) {
	// The empty trie's root, keccak256 of the RLP empty string 0x80, has no
	// node to load: every key is absent under it without any proof node.
	if root == crypto.Keccak256Hash([]byte{0x80}) {
		return ProofResult{Found: false}, nil
	}

	db := memorydb.New()
	defer db.Close()

	for _, node := range proof {
		hash := crypto.Keccak256(node)
		if err := db.Put(hash, node); err != nil {
			return ProofResult{}, fmt.Errorf("statetrie: loading proof node: %w", err)
		}
	}

	value, err := trie.VerifyProof(root, key, db)
	if err != nil {
		return ProofResult{}, fmt.Errorf("statetrie: malformed proof: %w", err)
	}
	if value == nil {
		return ProofResult{Found: false}, nil
	}
	return ProofResult{Found: true, Value: value}, nil
}

// AccountKey returns the state-trie lookup key for an account: the
// Keccak-256 digest of its address, since Ethereum hashes account keys
// ("secure trie") before inserting them into the state trie.
func AccountKey(address common.Address) []byte {
	return crypto.Keccak256(address.Bytes())
}

// StorageSlotKey returns the state-trie lookup key for a balance mapping
// entry balances[addr] declared at storage slot slot, per the standard
// Solidity layout: the slot location is keccak256(pad12(addr) ‖ slot), and
// the storage trie itself is secure (hashed once more before lookup), so the
// final lookup key is keccak256(keccak256(pad12(addr) ‖ slot)).
func StorageSlotKey(addr common.Address, slot common.Hash) []byte {
	var preimage [64]byte
	copy(preimage[12:32], addr.Bytes())
	copy(preimage[32:64], slot.Bytes())
	location := crypto.Keccak256(preimage[:])
	return crypto.Keccak256(location)
}
