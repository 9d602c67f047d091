package rpcfetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockRPCServer(t *testing.T, handler func(method string, params []json.RawMessage) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID      json.RawMessage   `json:"id"`
			Method  string            `json:"method"`
			Params  []json.RawMessage `json:"params"`
			JSONRPC string            `json:"jsonrpc"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, err := handler(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if err != nil {
			resp["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestFetchNativeInput(t *testing.T) {
	addr := common.HexToAddress("0x2f6c780b5623b98df5a551ed6324d89ab20b0f39")
	stateRoot := common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
	blockHash := common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222")

	server := mockRPCServer(t, func(method string, params []json.RawMessage) (interface{}, error) {
		switch method {
		case "eth_getBlockByNumber":
			return map[string]interface{}{
				"number":    "0x10",
				"hash":      blockHash.Hex(),
				"stateRoot": stateRoot.Hex(),
			}, nil
		case "eth_getProof":
			return map[string]interface{}{
				"address":      addr.Hex(),
				"accountProof": []string{"0xc0"},
				"balance":      "0x3e8",
				"codeHash":     common.Hash{}.Hex(),
				"nonce":        "0x0",
				"storageHash":  common.Hash{}.Hex(),
				"storageProof": []interface{}{},
			}, nil
		default:
			t.Fatalf("unexpected method %s", method)
			return nil, nil
		}
	})
	defer server.Close()

	client, err := Dial(server.URL)
	require.NoError(t, err)
	defer client.Close()

	in, err := client.FetchNativeInput(context.Background(), addr, 16, 500, []byte("sig"), []byte("msg"))
	require.NoError(t, err)

	assert.Equal(t, stateRoot, common.Hash(in.Root))
	assert.Equal(t, blockHash, common.Hash(in.BlockHash))
	require.Len(t, in.AccountProof, 1)
	assert.Equal(t, uint64(500), in.ExpectedBalance)
}
