// Package prover is the host-side proof driver (C11): it pre-flight checks
// a signature, marshals a request's input into the guest wire format, and
// invokes a prover backend to obtain a receipt.
//
// The Request interface mirrors the source system's polymorphic capability
// over "native" and "contract" proof kinds, letting the driver, the CLI, and
// the fan-out helper below stay generic over which circuit a given request
// targets.
package prover

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethzk/balanceproof/receipt"
	"github.com/ethzk/balanceproof/schema"
	"github.com/ethzk/balanceproof/sig"
)

// Request is satisfied by every proof request this driver can run. Each
// variant knows how to serialize itself into the guest wire format and
// which compiled program should execute it.
type Request interface {
	UserAddress() [20]byte
	Signature() []byte
	Message() []byte
	ExpectedBalance() uint64
	ImageID() schema.ImageID
	GuestInput() ([]byte, error)
	Description() string
}

// NativeRequest is a balance-threshold request against a base-layer account.
type NativeRequest struct {
	Provider     string
	UserAddr     [20]byte
	BlockNumber  uint64
	Sig          []byte
	Msg          []byte
	Balance      uint64
	Root         [32]byte
	BlockHash    [32]byte
	AccountProof [][]byte
}

var _ Request = NativeRequest{}

func (r NativeRequest) UserAddress() [20]byte   { return r.UserAddr }
func (r NativeRequest) Signature() []byte       { return r.Sig }
func (r NativeRequest) Message() []byte         { return r.Msg }
func (r NativeRequest) ExpectedBalance() uint64 { return r.Balance }
func (r NativeRequest) ImageID() schema.ImageID { return schema.NativeImageID }

func (r NativeRequest) GuestInput() ([]byte, error) {
	return schema.EncodeNativeInput(schema.NativeProofInput{
		UserAddress:     r.UserAddr,
		Root:            r.Root,
		BlockHash:       r.BlockHash,
		AccountProof:    r.AccountProof,
		ExpectedBalance: r.Balance,
		Signature:       r.Sig,
		Message:         r.Msg,
	}), nil
}

func (r NativeRequest) Description() string {
	return fmt.Sprintf("native balance proof for %x at block %d via %s", r.UserAddr, r.BlockNumber, r.Provider)
}

// ContractRequest is a balance-threshold request against an ERC-20-style
// storage slot.
type ContractRequest struct {
	Provider     string
	UserAddr     [20]byte
	ContractAddr [20]byte
	BalanceSlot  [32]byte
	BlockNumber  uint64
	Sig          []byte
	Msg          []byte
	Balance      uint64
	StorageHash  [32]byte
	BlockHash    [32]byte
	StorageProof [][]byte
}

var _ Request = ContractRequest{}

func (r ContractRequest) UserAddress() [20]byte   { return r.UserAddr }
func (r ContractRequest) Signature() []byte       { return r.Sig }
func (r ContractRequest) Message() []byte         { return r.Msg }
func (r ContractRequest) ExpectedBalance() uint64 { return r.Balance }
func (r ContractRequest) ImageID() schema.ImageID { return schema.ContractImageID }

func (r ContractRequest) GuestInput() ([]byte, error) {
	return schema.EncodeContractInput(schema.ContractProofInput{
		ContractAddress: r.ContractAddr,
		BalanceSlot:     r.BalanceSlot,
		UserAddress:     r.UserAddr,
		StorageHash:     r.StorageHash,
		BlockHash:       r.BlockHash,
		StorageProof:    r.StorageProof,
		ExpectedBalance: r.Balance,
		Signature:       r.Sig,
		Message:         r.Msg,
	}), nil
}

func (r ContractRequest) Description() string {
	return fmt.Sprintf("erc20 balance proof for %x on contract %x at block %d via %s", r.UserAddr, r.ContractAddr, r.BlockNumber, r.Provider)
}

// Client runs a guest program to completion and returns its receipt. A real
// implementation wraps the Ziren zkVM prover; tests and dry runs can supply
// a fake.
type Client interface {
	Prove(ctx context.Context, imageID schema.ImageID, guestInput []byte) (receipt.Receipt, error)
}

// Preflight re-derives the signer of req's message and fails fast if it
// does not match the claimed user address, before any costly proving run.
// This duplicates the guest's own signature gate and is purely an
// optimization: the guest re-checks it authoritatively.
func Preflight(req Request) error {
	return sig.VerifySigner(req.Signature(), req.Message(), req.UserAddress())
}

// Run pre-flights req, marshals its guest input, and invokes client to
// obtain a receipt.
func Run(ctx context.Context, client Client, req Request) (receipt.Receipt, error) {
	if err := Preflight(req); err != nil {
		return receipt.Receipt{}, fmt.Errorf("prover: preflight failed for %s: %w", req.Description(), err)
	}

	input, err := req.GuestInput()
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("prover: marshal input for %s: %w", req.Description(), err)
	}

	r, err := client.Prove(ctx, req.ImageID(), input)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("prover: prove %s: %w", req.Description(), err)
	}
	return r, nil
}

// Result pairs a request's outcome for RunMany's fan-out.
type Result struct {
	Request Request
	Receipt receipt.Receipt
	Err     error
}

// RunMany runs each of requests through Run, concurrently but bounded by
// concurrency independent calls at a time. No state is shared between
// proofs: each call gets its own client invocation, matching the spec's "no
// concurrent proofs share prover state."
func RunMany(ctx context.Context, client Client, requests []Request, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(requests))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r, err := Run(ctx, client, req)
			results[i] = Result{Request: req, Receipt: r, Err: err}
		}(i, req)
	}

	wg.Wait()
	return results
}
