package schema

import (
	"encoding/binary"
	"errors"
)

// ErrShortWire is returned when a wire-encoded buffer ends before the
// declared fields have been fully read.
var ErrShortWire = errors.New("schema: truncated wire input")

// Writer accumulates the zkVM's word-oriented wire format: a stream of
// little-endian 32-bit words. Fixed-size byte arrays are written as
// consecutive words (zero-padded to a word boundary); variable-length byte
// sequences are length-prefixed with one word holding the byte count.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated wire-format buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) putWord(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) padToWord() {
	if rem := len(w.buf) % 4; rem != 0 {
		w.buf = append(w.buf, make([]byte, 4-rem)...)
	}
}

// WriteFixed writes a fixed-size byte array as consecutive words.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
	w.padToWord()
}

// WriteBytes writes a length-prefixed variable-length byte sequence.
func (w *Writer) WriteBytes(b []byte) {
	w.putWord(uint32(len(b)))
	w.buf = append(w.buf, b...)
	w.padToWord()
}

// WriteBytesList writes a length-prefixed sequence of length-prefixed byte
// sequences (used for account_proof / storage_proof node lists).
func (w *Writer) WriteBytesList(list [][]byte) {
	w.putWord(uint32(len(list)))
	for _, item := range list {
		w.WriteBytes(item)
	}
}

// WriteU64 writes a 64-bit unsigned integer as two little-endian words.
func (w *Writer) WriteU64(v uint64) {
	w.putWord(uint32(v))
	w.putWord(uint32(v >> 32))
}

// Reader walks a buffer produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) getWord() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, ErrShortWire
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *Reader) skipToWord(n int) {
	if rem := n % 4; rem != 0 {
		r.pos += 4 - rem
	}
}

// ReadFixed reads n bytes written by WriteFixed.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, ErrShortWire
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	r.skipToWord(n)
	return out, nil
}

// ReadBytes reads a length-prefixed variable-length byte sequence.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.getWord()
	if err != nil {
		return nil, err
	}
	return r.ReadFixed(int(n))
}

// ReadBytesList reads a sequence written by WriteBytesList.
func (r *Reader) ReadBytesList() ([][]byte, error) {
	n, err := r.getWord()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		b, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadU64 reads a value written by WriteU64.
func (r *Reader) ReadU64() (uint64, error) {
	lo, err := r.getWord()
	if err != nil {
		return 0, err
	}
	hi, err := r.getWord()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// EncodeNativeInput serializes a NativeProofInput to the guest wire format.
func EncodeNativeInput(in NativeProofInput) []byte {
	w := NewWriter()
	w.WriteFixed(in.UserAddress[:])
	w.WriteFixed(in.Root[:])
	w.WriteFixed(in.BlockHash[:])
	w.WriteBytesList(in.AccountProof)
	w.WriteU64(in.ExpectedBalance)
	w.WriteBytes(in.Signature)
	w.WriteBytes(in.Message)
	return w.Bytes()
}

// DecodeNativeInput is the guest-side inverse of EncodeNativeInput.
func DecodeNativeInput(buf []byte) (NativeProofInput, error) {
	r := NewReader(buf)
	var in NativeProofInput
	addr, err := r.ReadFixed(20)
	if err != nil {
		return in, err
	}
	copy(in.UserAddress[:], addr)
	root, err := r.ReadFixed(32)
	if err != nil {
		return in, err
	}
	copy(in.Root[:], root)
	bh, err := r.ReadFixed(32)
	if err != nil {
		return in, err
	}
	copy(in.BlockHash[:], bh)
	if in.AccountProof, err = r.ReadBytesList(); err != nil {
		return in, err
	}
	if in.ExpectedBalance, err = r.ReadU64(); err != nil {
		return in, err
	}
	if in.Signature, err = r.ReadBytes(); err != nil {
		return in, err
	}
	if in.Message, err = r.ReadBytes(); err != nil {
		return in, err
	}
	return in, nil
}

// EncodeNativeOutput serializes the native circuit's committed journal.
func EncodeNativeOutput(out NativeProofOutput) []byte {
	w := NewWriter()
	w.WriteFixed(out.Root[:])
	w.WriteFixed(out.BlockHash[:])
	w.WriteU64(out.ExpectedBalance)
	w.WriteBytes(out.Message)
	return w.Bytes()
}

// DecodeNativeOutput parses a journal produced by EncodeNativeOutput.
func DecodeNativeOutput(buf []byte) (NativeProofOutput, error) {
	r := NewReader(buf)
	var out NativeProofOutput
	root, err := r.ReadFixed(32)
	if err != nil {
		return out, err
	}
	copy(out.Root[:], root)
	bh, err := r.ReadFixed(32)
	if err != nil {
		return out, err
	}
	copy(out.BlockHash[:], bh)
	if out.ExpectedBalance, err = r.ReadU64(); err != nil {
		return out, err
	}
	if out.Message, err = r.ReadBytes(); err != nil {
		return out, err
	}
	return out, nil
}

// EncodeContractInput serializes a ContractProofInput to the guest wire format.
func EncodeContractInput(in ContractProofInput) []byte {
	w := NewWriter()
	w.WriteFixed(in.ContractAddress[:])
	w.WriteFixed(in.BalanceSlot[:])
	w.WriteFixed(in.UserAddress[:])
	w.WriteFixed(in.StorageHash[:])
	w.WriteFixed(in.BlockHash[:])
	w.WriteBytesList(in.StorageProof)
	w.WriteU64(in.ExpectedBalance)
	w.WriteBytes(in.Signature)
	w.WriteBytes(in.Message)
	return w.Bytes()
}

// DecodeContractInput is the guest-side inverse of EncodeContractInput.
func DecodeContractInput(buf []byte) (ContractProofInput, error) {
	r := NewReader(buf)
	var in ContractProofInput
	ca, err := r.ReadFixed(20)
	if err != nil {
		return in, err
	}
	copy(in.ContractAddress[:], ca)
	slot, err := r.ReadFixed(32)
	if err != nil {
		return in, err
	}
	copy(in.BalanceSlot[:], slot)
	ua, err := r.ReadFixed(20)
	if err != nil {
		return in, err
	}
	copy(in.UserAddress[:], ua)
	sh, err := r.ReadFixed(32)
	if err != nil {
		return in, err
	}
	copy(in.StorageHash[:], sh)
	bh, err := r.ReadFixed(32)
	if err != nil {
		return in, err
	}
	copy(in.BlockHash[:], bh)
	if in.StorageProof, err = r.ReadBytesList(); err != nil {
		return in, err
	}
	if in.ExpectedBalance, err = r.ReadU64(); err != nil {
		return in, err
	}
	if in.Signature, err = r.ReadBytes(); err != nil {
		return in, err
	}
	if in.Message, err = r.ReadBytes(); err != nil {
		return in, err
	}
	return in, nil
}

// EncodeContractOutput serializes the contract circuit's committed journal.
func EncodeContractOutput(out ContractProofOutput) []byte {
	w := NewWriter()
	w.WriteFixed(out.ContractAddress[:])
	w.WriteFixed(out.StorageHash[:])
	w.WriteU64(out.ExpectedBalance)
	w.WriteFixed(out.BlockHash[:])
	w.WriteFixed(out.BalanceSlot[:])
	w.WriteBytes(out.Message)
	return w.Bytes()
}

// DecodeContractOutput parses a journal produced by EncodeContractOutput.
func DecodeContractOutput(buf []byte) (ContractProofOutput, error) {
	r := NewReader(buf)
	var out ContractProofOutput
	ca, err := r.ReadFixed(20)
	if err != nil {
		return out, err
	}
	copy(out.ContractAddress[:], ca)
	sh, err := r.ReadFixed(32)
	if err != nil {
		return out, err
	}
	copy(out.StorageHash[:], sh)
	if out.ExpectedBalance, err = r.ReadU64(); err != nil {
		return out, err
	}
	bh, err := r.ReadFixed(32)
	if err != nil {
		return out, err
	}
	copy(out.BlockHash[:], bh)
	slot, err := r.ReadFixed(32)
	if err != nil {
		return out, err
	}
	copy(out.BalanceSlot[:], slot)
	if out.Message, err = r.ReadBytes(); err != nil {
		return out, err
	}
	return out, nil
}
