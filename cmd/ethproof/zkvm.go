package main

import (
	"context"
	"fmt"

	zkvm "github.com/ProjectZKM/Ziren/crates/go-runtime/zkvm_runtime"

	"github.com/ethzk/balanceproof/receipt"
	"github.com/ethzk/balanceproof/schema"
)

// zkvmClient drives the Ziren host-side prover to run a compiled guest
// program against a given input and produce a receipt, and conversely
// checks a receipt's seal against a claimed program image. It implements
// both prover.Client (for prove-native/prove-contract) and receipt.Verifier
// (for verify).
type zkvmClient struct{}

func newZkvmClient() (*zkvmClient, error) {
	return &zkvmClient{}, nil
}

func (z *zkvmClient) Prove(ctx context.Context, imageID schema.ImageID, guestInput []byte) (receipt.Receipt, error) {
	elfPath, err := guestELFPath(imageID)
	if err != nil {
		return receipt.Receipt{}, err
	}

	r, err := zkvm.Prove(elfPath, guestInput)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("zkvm: prove: %w", err)
	}

	return receipt.Receipt{
		Journal: r.Journal,
		Seal:    r.Seal,
		ImageID: imageID,
	}, nil
}

func (z *zkvmClient) VerifySeal(r receipt.Receipt, imageID schema.ImageID) error {
	if r.ImageID != imageID {
		return fmt.Errorf("zkvm: receipt image id %v does not match expected %v", r.ImageID, imageID)
	}
	ok, err := zkvm.VerifySeal(r.Seal, r.Journal, imageID)
	if err != nil {
		return fmt.Errorf("zkvm: verify seal: %w", err)
	}
	if !ok {
		return fmt.Errorf("zkvm: seal did not verify")
	}
	return nil
}

// guestELFPath maps an image id to its compiled guest binary. A real
// deployment builds cmd/guest-native and cmd/guest-contract ahead of time
// and records their paths here (or resolves them from an embedded build
// manifest); this is a thin placeholder for that lookup.
func guestELFPath(imageID schema.ImageID) (string, error) {
	switch imageID {
	case schema.NativeImageID:
		return "./build/guest-native", nil
	case schema.ContractImageID:
		return "./build/guest-contract", nil
	default:
		return "", fmt.Errorf("zkvm: unknown image id %v", imageID)
	}
}
