// Package receipt implements the host-side STARK receipt verifier (C10):
// checking a guest run's cryptographic seal against the program image it
// claims to have executed, then deserializing the committed journal into a
// strongly-typed output.
package receipt

import (
	"encoding/json"
	"fmt"

	"github.com/ethzk/balanceproof/schema"
)

// Receipt is a zkVM proof artifact: a STARK seal over an execution trace,
// plus the journal the guest committed at normal termination.
type Receipt struct {
	Journal []byte         `json:"journal"`
	Seal    []uint32       `json:"seal"`
	ImageID schema.ImageID `json:"image_id"`
}

// Verifier checks a receipt's cryptographic seal against an image ID. It is
// an interface so the package can be exercised against a fake in tests
// without linking a real zkVM verifier.
type Verifier interface {
	VerifySeal(r Receipt, imageID schema.ImageID) error
}

// ErrBadSeal indicates the receipt's seal does not verify against the
// claimed program image: the receipt was not produced by that circuit, or
// was tampered with.
var ErrBadSeal = fmt.Errorf("receipt: seal does not verify against image id")

// ErrBadJournal indicates the seal verified but the journal bytes could not
// be decoded into the expected output shape.
var ErrBadJournal = fmt.Errorf("receipt: malformed journal")

// VerifyNative checks r against NativeImageID and decodes its journal as a
// NativeProofOutput.
func VerifyNative(v Verifier, r Receipt) (schema.NativeProofOutput, error) {
	var out schema.NativeProofOutput
	if err := v.VerifySeal(r, schema.NativeImageID); err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadSeal, err)
	}
	out, err := schema.DecodeNativeOutput(r.Journal)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadJournal, err)
	}
	return out, nil
}

// VerifyContract checks r against ContractImageID and decodes its journal as
// a ContractProofOutput.
func VerifyContract(v Verifier, r Receipt) (schema.ContractProofOutput, error) {
	var out schema.ContractProofOutput
	if err := v.VerifySeal(r, schema.ContractImageID); err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadSeal, err)
	}
	out, err := schema.DecodeContractOutput(r.Journal)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadJournal, err)
	}
	return out, nil
}

// WriteJSON encodes a receipt in the host's JSON proof-artifact format and
// returns the bytes; writing them to a file is left to the caller.
func WriteJSON(r Receipt) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("receipt: marshal: %w", err)
	}
	return b, nil
}

// ReadJSON parses a receipt previously written by WriteJSON.
func ReadJSON(b []byte) (Receipt, error) {
	var r Receipt
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("receipt: unmarshal: %w", err)
	}
	return r, nil
}
