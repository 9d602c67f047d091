package prover

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethzk/balanceproof/receipt"
	"github.com/ethzk/balanceproof/schema"
	"github.com/ethzk/balanceproof/sig"
)

type fakeClient struct {
	calls int
	err   error
}

func (f *fakeClient) Prove(ctx context.Context, imageID schema.ImageID, guestInput []byte) (receipt.Receipt, error) {
	f.calls++
	if f.err != nil {
		return receipt.Receipt{}, f.err
	}
	return receipt.Receipt{ImageID: imageID, Journal: guestInput}, nil
}

func validSignedRequest(t *testing.T) NativeRequest {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	msg := sig.Format([]byte("threshold check"))
	digest := crypto.Keccak256(msg)
	signature, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	return NativeRequest{
		Provider: "https://example.invalid",
		UserAddr: addr,
		Sig:      signature,
		Msg:      msg,
		Balance:  1000,
	}
}

func TestRunSucceedsWithValidSignature(t *testing.T) {
	req := validSignedRequest(t)
	client := &fakeClient{}

	r, err := Run(context.Background(), client, req)
	require.NoError(t, err)
	assert.Equal(t, schema.NativeImageID, r.ImageID)
	assert.Equal(t, 1, client.calls)
}

func TestRunFailsPreflightOnWrongSigner(t *testing.T) {
	req := validSignedRequest(t)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	req.UserAddr = crypto.PubkeyToAddress(otherKey.PublicKey)

	client := &fakeClient{}
	_, err = Run(context.Background(), client, req)
	require.Error(t, err)
	assert.Equal(t, 0, client.calls, "client must not be invoked when preflight fails")
}

func TestRunPropagatesClientError(t *testing.T) {
	req := validSignedRequest(t)
	client := &fakeClient{err: errors.New("prover unavailable")}

	_, err := Run(context.Background(), client, req)
	assert.Error(t, err)
}

func TestRunManyRunsAllRequestsConcurrently(t *testing.T) {
	requests := make([]Request, 0, 5)
	for i := 0; i < 5; i++ {
		req := validSignedRequest(t)
		req.Balance = uint64(i)
		requests = append(requests, req)
	}
	client := &fakeClient{}

	results := RunMany(context.Background(), client, requests, 3)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}
