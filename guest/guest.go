// Package guest implements the two balance-threshold circuits: the
// straight-line verification programs that, run inside a zkVM, produce a
// STARK receipt attesting that a signer controls an address whose native or
// ERC-20-slot balance meets a threshold, without revealing the balance
// itself.
//
// Every failure here is a panic: the guest has no recoverable control flow,
// so a fault simply prevents a receipt from ever existing. That absence is
// itself the soundness argument — a verifier that accepts a receipt has
// proof every gate below passed.
package guest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethzk/balanceproof/bigendian"
	"github.com/ethzk/balanceproof/rlplist"
	"github.com/ethzk/balanceproof/schema"
	"github.com/ethzk/balanceproof/sig"
	"github.com/ethzk/balanceproof/statetrie"
)

// NativeCircuit runs C8: gate on the signature, walk the account trie,
// check the decoded account balance, and return the journal to commit.
// It panics on any gate failure, matching the guest's fault model.
func NativeCircuit(in schema.NativeProofInput) schema.NativeProofOutput {
	if err := sig.VerifySigner(in.Signature, in.Message, in.UserAddress); err != nil {
		panic(err.Error())
	}

	key := statetrie.AccountKey(common.Address(in.UserAddress))
	result, err := statetrie.VerifyProof(common.Hash(in.Root), key, in.AccountProof)
	if err != nil {
		panic(fmt.Sprintf("account trie walk failed: %v", err))
	}
	if !result.Found {
		panic("account proof does not authenticate user_address under root")
	}

	account, err := rlplist.DecodeList(result.Value)
	if err != nil {
		panic(fmt.Sprintf("malformed account record: %v", err))
	}
	if len(account) != 4 {
		panic("account record is not a 4-element list")
	}
	balance := account[1]

	expected := expectedBalanceBytes(in.ExpectedBalance)
	if !bigendian.Geq(balance, expected) {
		panic("balance below threshold")
	}

	return schema.NativeProofOutput{
		Root:            in.Root,
		BlockHash:       in.BlockHash,
		ExpectedBalance: in.ExpectedBalance,
		Message:         in.Message,
	}
}

// ContractCircuit runs C9: gate on the signature, derive the storage slot
// key, walk the storage trie, and check the raw scalar balance. Unlike
// NativeCircuit there is no RLP list to decode — a storage leaf is already
// the raw big-endian balance bytes.
func ContractCircuit(in schema.ContractProofInput) schema.ContractProofOutput {
	if err := sig.VerifySigner(in.Signature, in.Message, in.UserAddress); err != nil {
		panic(err.Error())
	}

	key := statetrie.StorageSlotKey(common.Address(in.UserAddress), common.Hash(in.BalanceSlot))
	result, err := statetrie.VerifyProof(common.Hash(in.StorageHash), key, in.StorageProof)
	if err != nil {
		panic(fmt.Sprintf("storage trie walk failed: %v", err))
	}
	if !result.Found {
		panic("storage proof does not authenticate the balance slot under storage_hash")
	}

	expected := expectedBalanceBytes(in.ExpectedBalance)
	if !bigendian.Geq(result.Value, expected) {
		panic("balance below threshold")
	}

	return schema.ContractProofOutput{
		ContractAddress: in.ContractAddress,
		StorageHash:     in.StorageHash,
		ExpectedBalance: in.ExpectedBalance,
		BlockHash:       in.BlockHash,
		BalanceSlot:     in.BalanceSlot,
		Message:         in.Message,
	}
}

func expectedBalanceBytes(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}
