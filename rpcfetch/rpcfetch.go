// Package rpcfetch fetches the publicly verifiable data a proof request
// needs — a block's state root and an eth_getProof Merkle proof — from a
// standard Ethereum JSON-RPC endpoint, and assembles it into the guest
// input schemas. It sits entirely on the host, upstream of the prover
// driver, which never imports an HTTP/JSON-RPC type directly.
package rpcfetch

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ethzk/balanceproof/schema"
)

// proofResponse mirrors the EIP-1186 eth_getProof result shape.
type proofResponse struct {
	Address      common.Address      `json:"address"`
	AccountProof []string            `json:"accountProof"`
	Balance      *hexutil.Big        `json:"balance"`
	CodeHash     common.Hash         `json:"codeHash"`
	Nonce        hexutil.Uint64      `json:"nonce"`
	StorageHash  common.Hash         `json:"storageHash"`
	StorageProof []storageProofEntry `json:"storageProof"`
}

type storageProofEntry struct {
	Key   string   `json:"key"`
	Value string   `json:"value"`
	Proof []string `json:"proof"`
}

// blockHeader is the subset of eth_getBlockByNumber fields this module
// needs.
type blockHeader struct {
	Number    hexutil.Uint64 `json:"number"`
	Hash      common.Hash    `json:"hash"`
	StateRoot common.Hash    `json:"stateRoot"`
}

// Client wraps a JSON-RPC connection to an Ethereum-compatible node.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to rpcURL.
func Dial(rpcURL string) (*Client, error) {
	return DialContext(context.Background(), rpcURL)
}

// DialContext connects to rpcURL, honoring ctx for the dial itself.
func DialContext(ctx context.Context, rpcURL string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("rpcfetch: dial %s: %w", rpcURL, err)
	}
	return &Client{rpc: c}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

// blockHeaderByNumber fetches the block header fields needed to pin a proof
// to a specific block: its hash and state root. blockNumber is formatted as
// a quantity tag; pass -1 for "latest".
func (c *Client) blockHeaderByNumber(ctx context.Context, blockNumber int64) (blockHeader, error) {
	var tag string
	if blockNumber < 0 {
		tag = "latest"
	} else {
		tag = hexutil.EncodeBig(big.NewInt(blockNumber))
	}

	var h blockHeader
	if err := c.rpc.CallContext(ctx, &h, "eth_getBlockByNumber", tag, false); err != nil {
		return blockHeader{}, fmt.Errorf("rpcfetch: eth_getBlockByNumber: %w", err)
	}
	return h, nil
}

func (c *Client) getProof(ctx context.Context, address common.Address, storageKeys []common.Hash, blockNumber int64) (proofResponse, error) {
	var tag string
	if blockNumber < 0 {
		tag = "latest"
	} else {
		tag = hexutil.EncodeBig(big.NewInt(blockNumber))
	}

	keys := make([]string, len(storageKeys))
	for i, k := range storageKeys {
		keys[i] = k.Hex()
	}

	var resp proofResponse
	if err := c.rpc.CallContext(ctx, &resp, "eth_getProof", address, keys, tag); err != nil {
		return proofResponse{}, fmt.Errorf("rpcfetch: eth_getProof: %w", err)
	}
	return resp, nil
}

func decodeHexNodes(nodes []string) ([][]byte, error) {
	out := make([][]byte, len(nodes))
	for i, n := range nodes {
		b, err := hexutil.Decode(n)
		if err != nil {
			return nil, fmt.Errorf("rpcfetch: decode proof node %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// FetchNativeInput assembles a NativeProofInput for userAddress at
// blockNumber (-1 for latest): the account proof against the block's state
// root, wrapped with the already-signed challenge.
func (c *Client) FetchNativeInput(
	ctx context.Context,
	userAddress common.Address,
	blockNumber int64,
	expectedBalance uint64,
	signature, message []byte,
) (schema.NativeProofInput, error) {
	header, err := c.blockHeaderByNumber(ctx, blockNumber)
	if err != nil {
		return schema.NativeProofInput{}, err
	}

	proof, err := c.getProof(ctx, userAddress, nil, blockNumber)
	if err != nil {
		return schema.NativeProofInput{}, err
	}

	accountProof, err := decodeHexNodes(proof.AccountProof)
	if err != nil {
		return schema.NativeProofInput{}, err
	}

	return schema.NativeProofInput{
		UserAddress:     schema.Address(userAddress),
		Root:            schema.Hash(header.StateRoot),
		BlockHash:       schema.Hash(header.Hash),
		AccountProof:    accountProof,
		ExpectedBalance: expectedBalance,
		Signature:       signature,
		Message:         message,
	}, nil
}

// FetchContractInput assembles a ContractProofInput for userAddress's
// balance mapping entry at balanceSlot within contractAddress, at
// blockNumber (-1 for latest).
func (c *Client) FetchContractInput(
	ctx context.Context,
	contractAddress, userAddress common.Address,
	balanceSlot common.Hash,
	blockNumber int64,
	expectedBalance uint64,
	signature, message []byte,
) (schema.ContractProofInput, error) {
	header, err := c.blockHeaderByNumber(ctx, blockNumber)
	if err != nil {
		return schema.ContractProofInput{}, err
	}

	storageKeyHex := storageSlotKeyHex(userAddress, balanceSlot)
	storageKey := common.HexToHash(storageKeyHex)

	proof, err := c.getProof(ctx, contractAddress, []common.Hash{storageKey}, blockNumber)
	if err != nil {
		return schema.ContractProofInput{}, err
	}
	if len(proof.StorageProof) != 1 {
		return schema.ContractProofInput{}, fmt.Errorf("rpcfetch: expected exactly one storage proof entry, got %d", len(proof.StorageProof))
	}

	storageProof, err := decodeHexNodes(proof.StorageProof[0].Proof)
	if err != nil {
		return schema.ContractProofInput{}, err
	}

	return schema.ContractProofInput{
		ContractAddress: schema.Address(contractAddress),
		BalanceSlot:     schema.Hash(balanceSlot),
		UserAddress:     schema.Address(userAddress),
		StorageHash:     schema.Hash(proof.StorageHash),
		BlockHash:       schema.Hash(header.Hash),
		StorageProof:    storageProof,
		ExpectedBalance: expectedBalance,
		Signature:       signature,
		Message:         message,
	}, nil
}

// storageSlotKeyHex computes the pre-secure-trie storage location
// keccak256(pad12(addr) ‖ slot), the key eth_getProof's storageKeys
// parameter expects — the node applies the second hashing step itself when
// it looks the key up in its own secure storage trie.
func storageSlotKeyHex(addr common.Address, slot common.Hash) string {
	var preimage [64]byte
	copy(preimage[12:32], addr.Bytes())
	copy(preimage[32:64], slot.Bytes())
	return common.BytesToHash(crypto.Keccak256(preimage[:])).Hex()
}
