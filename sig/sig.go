// Package sig recovers an Ethereum address from a recoverable ECDSA
// signature and applies the EIP-191 personal-message prefix, the two
// operations the guest circuits use to gate a proof on "the caller controls
// user_address".
package sig

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
)

// Format applies the EIP-191 personal-message prefix to s:
// "\x19Ethereum Signed Message:\n" || decimal(len(s)) || s.
func Format(s []byte) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(s))
	out := make([]byte, 0, len(prefix)+len(s))
	out = append(out, prefix...)
	out = append(out, s...)
	return out
}

// RecoverAddress recovers the 20-byte Ethereum address of the signer of
// message from a 65-byte recoverable signature (64 bytes of compact (r,s)
// plus a 1-byte recovery id). message is hashed with Keccak-256 internally,
// matching go-ethereum's Ecrecover/SigToPub convention.
//
// message should already carry any message-specific framing (EIP-191 or
// otherwise) the caller wants covered by the signature; RecoverAddress does
// not apply Format itself.
func RecoverAddress(signature, message []byte) ([20]byte, error) {
	var addr [20]byte
	if len(signature) != 65 {
		return addr, fmt.Errorf("sig: signature must be 65 bytes, got %d", len(signature))
	}

	digest := crypto.Keccak256(message)
	pub, err := crypto.SigToPub(digest, signature)
	if err != nil {
		return addr, fmt.Errorf("sig: recover public key: %w", err)
	}

	derived := crypto.PubkeyToAddress(*pub)
	copy(addr[:], derived.Bytes())
	return addr, nil
}

// VerifySigner reports whether recovering the signer of message from
// signature yields exactly userAddress.
func VerifySigner(signature, message []byte, userAddress [20]byte) error {
	got, err := RecoverAddress(signature, message)
	if err != nil {
		return err
	}
	if got != userAddress {
		return fmt.Errorf("sig: signature does not match provided address")
	}
	return nil
}

// DeriveAddress implements C4 step (b) directly on a SEC1-encoded public
// key (33-byte compressed or 65-byte uncompressed), independent of any
// signature recovery. It exists for callers that already hold a public key
// rather than a signature.
func DeriveAddress(pubkey []byte) ([20]byte, error) {
	var addr [20]byte

	switch len(pubkey) {
	case 33:
		key, err := crypto.DecompressPubkey(pubkey)
		if err != nil {
			return addr, fmt.Errorf("sig: decompress public key: %w", err)
		}
		copy(addr[:], crypto.PubkeyToAddress(*key).Bytes())
		return addr, nil
	case 65:
		key, err := crypto.UnmarshalPubkey(pubkey)
		if err != nil {
			return addr, fmt.Errorf("sig: unmarshal public key: %w", err)
		}
		copy(addr[:], crypto.PubkeyToAddress(*key).Bytes())
		return addr, nil
	default:
		return addr, fmt.Errorf("sig: public key must be 33 or 65 bytes, got %d", len(pubkey))
	}
}
