// Command guest-native is the compiled zkVM guest program for C8: it reads
// a serialized NativeProofInput from the zkVM's input stream, runs the
// native balance circuit, and commits the resulting journal. It has no
// recoverable control flow — guest.NativeCircuit panics on any gate
// failure, which aborts the proof run before any journal is committed.
package main

import (
	zkvm "github.com/ProjectZKM/Ziren/crates/go-runtime/zkvm_runtime"

	"github.com/ethzk/balanceproof/guest"
	"github.com/ethzk/balanceproof/schema"
)

func main() {
	raw := zkvm.ReadInput()

	in, err := schema.DecodeNativeInput(raw)
	if err != nil {
		panic(err.Error())
	}

	out := guest.NativeCircuit(in)

	zkvm.Commit(schema.EncodeNativeOutput(out))
}
