// Command guest-contract is the compiled zkVM guest program for C9: it
// reads a serialized ContractProofInput from the zkVM's input stream, runs
// the ERC-20-style storage slot balance circuit, and commits the resulting
// journal.
package main

import (
	zkvm "github.com/ProjectZKM/Ziren/crates/go-runtime/zkvm_runtime"

	"github.com/ethzk/balanceproof/guest"
	"github.com/ethzk/balanceproof/schema"
)

func main() {
	raw := zkvm.ReadInput()

	in, err := schema.DecodeContractInput(raw)
	if err != nil {
		panic(err.Error())
	}

	out := guest.ContractCircuit(in)

	zkvm.Commit(schema.EncodeContractOutput(out))
}
