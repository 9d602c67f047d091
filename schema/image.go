package schema

// ImageID identifies a compiled guest program, the zkVM's equivalent of a
// function pointer: the host names which circuit a proof run through, and a
// verifier checks a receipt against the same ID before trusting its journal.
type ImageID [8]uint32

// NativeImageID and ContractImageID are the two guest programs this module
// ships: C8 (native account balance) and C9 (ERC-20 storage slot balance).
// These are placeholder values; a real deployment stamps them in at build
// time from the guest binaries' actual compiled digest.
var (
	NativeImageID   = ImageID{0x6e617469, 0x76650000, 0, 0, 0, 0, 0, 0}
	ContractImageID = ImageID{0x636f6e74, 0x72616374, 0, 0, 0, 0, 0, 0}
)
