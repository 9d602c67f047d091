// Package rlplist decodes a single restricted shape of RLP: a top-level list
// whose items are themselves byte strings (not nested lists). That is the
// only shape the guest circuits ever need to parse — the account record held
// in an account trie leaf — so this package hand-rolls just that case rather than
// depending on go-ethereum/rlp's reflection-driven general decoder, which the
// zkVM guest build target cannot carry.
package rlplist

import "fmt"

// DecodeList decodes buf as an RLP list of byte strings and returns the
// items in order. It returns an error for any RLP shape outside that case
// (nested lists, truncated input, non-canonical length encodings).
func DecodeList(buf []byte) ([][]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("rlplist: empty input")
	}

	payload, err := listPayload(buf)
	if err != nil {
		return nil, err
	}

	var items [][]byte
	for len(payload) > 0 {
		item, rest, err := decodeString(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		payload = rest
	}
	return items, nil
}

// listPayload strips the outer list header and returns its payload, the
// concatenation of the list's encoded items, failing if buf is not an RLP
// list or carries trailing bytes.
func listPayload(buf []byte) ([]byte, error) {
	first := buf[0]
	switch {
	case first >= 0xc0 && first <= 0xf7:
		length := int(first - 0xc0)
		if len(buf) < 1+length {
			return nil, fmt.Errorf("rlplist: short list body")
		}
		if len(buf) != 1+length {
			return nil, fmt.Errorf("rlplist: trailing bytes after list")
		}
		return buf[1 : 1+length], nil
	case first >= 0xf8:
		lenOfLen := int(first - 0xf7)
		if len(buf) < 1+lenOfLen {
			return nil, fmt.Errorf("rlplist: short list length header")
		}
		length, err := decodeBigEndianLen(buf[1 : 1+lenOfLen])
		if err != nil {
			return nil, err
		}
		start := 1 + lenOfLen
		if len(buf) < start+length {
			return nil, fmt.Errorf("rlplist: short list body")
		}
		if len(buf) != start+length {
			return nil, fmt.Errorf("rlplist: trailing bytes after list")
		}
		return buf[start : start+length], nil
	default:
		return nil, fmt.Errorf("rlplist: not a list (first byte 0x%02x)", first)
	}
}

// decodeString decodes a single RLP byte-string item at the start of buf and
// returns it along with the remaining, unconsumed bytes. It rejects nested
// lists: the shape this package supports has none.
func decodeString(buf []byte) (item []byte, rest []byte, err error) {
	if len(buf) == 0 {
		return nil, nil, fmt.Errorf("rlplist: unexpected end of list payload")
	}
	first := buf[0]
	switch {
	case first < 0x80:
		return buf[0:1], buf[1:], nil
	case first <= 0xb7:
		length := int(first - 0x80)
		if len(buf) < 1+length {
			return nil, nil, fmt.Errorf("rlplist: short string body")
		}
		return buf[1 : 1+length], buf[1+length:], nil
	case first <= 0xbf:
		lenOfLen := int(first - 0xb7)
		if len(buf) < 1+lenOfLen {
			return nil, nil, fmt.Errorf("rlplist: short string length header")
		}
		length, err := decodeBigEndianLen(buf[1 : 1+lenOfLen])
		if err != nil {
			return nil, nil, err
		}
		start := 1 + lenOfLen
		if len(buf) < start+length {
			return nil, nil, fmt.Errorf("rlplist: short string body")
		}
		return buf[start : start+length], buf[start+length:], nil
	default:
		return nil, nil, fmt.Errorf("rlplist: nested list not supported (first byte 0x%02x)", first)
	}
}

func decodeBigEndianLen(b []byte) (int, error) {
	if len(b) == 0 || b[0] == 0 {
		return 0, fmt.Errorf("rlplist: non-canonical length encoding")
	}
	var v int
	for _, x := range b {
		v = v<<8 | int(x)
	}
	if v < 56 {
		// lengths below 56 fit in the short-form header
		return 0, fmt.Errorf("rlplist: non-canonical length encoding")
	}
	return v, nil
}
