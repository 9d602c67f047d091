// Command ethproof is the host front door: it fetches proof material over
// JSON-RPC, pre-flights and runs a balance-threshold proof, and verifies
// receipts produced by a prior run.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethzk/balanceproof/prover"
	"github.com/ethzk/balanceproof/receipt"
	"github.com/ethzk/balanceproof/rpcfetch"
	"github.com/ethzk/balanceproof/sig"
)

func main() {
	glogger := log.NewGlogHandler(log.NewTerminalHandler(os.Stderr, true))
	glogger.Verbosity(log.LevelInfo)
	log.SetDefault(log.NewLogger(glogger))

	app := &cli.App{
		Name:  "ethproof",
		Usage: "prove and verify Ethereum balance-threshold receipts",
		Commands: []*cli.Command{
			signCommand(),
			proveNativeCommand(),
			proveContractCommand(),
			verifyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("ethproof failed", "err", err)
		os.Exit(1)
	}
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "sign an EIP-191-prefixed challenge with a private key",
		ArgsUsage: "<hex-private-key> <message>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("usage: ethproof sign <hex-private-key> <message>")
			}
			key, err := crypto.HexToECDSA(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("parse private key: %w", err)
			}
			msg := sig.Format([]byte(c.Args().Get(1)))
			digest := crypto.Keccak256(msg)
			signature, err := crypto.Sign(digest, key)
			if err != nil {
				return fmt.Errorf("sign: %w", err)
			}
			addr := crypto.PubkeyToAddress(key.PublicKey)
			fmt.Printf("address:   %s\n", addr.Hex())
			fmt.Printf("message:   %x\n", msg)
			fmt.Printf("signature: %x\n", signature)
			return nil
		},
	}
}

func commonProveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "provider", Required: true, Usage: "Ethereum JSON-RPC endpoint"},
		&cli.StringFlag{Name: "address", Required: true, Usage: "user address"},
		&cli.Int64Flag{Name: "block", Value: -1, Usage: "block number, -1 for latest"},
		&cli.Uint64Flag{Name: "balance", Required: true, Usage: "expected balance threshold"},
		&cli.StringFlag{Name: "signature", Required: true, Usage: "hex-encoded 65-byte signature"},
		&cli.StringFlag{Name: "message", Required: true, Usage: "the signed message"},
		&cli.StringFlag{Name: "out", Value: "receipt.json", Usage: "path to write the receipt"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "trace each proof node's size and hash before proving"},
	}
}

// traceProofNodes prints each proof node's byte length and Keccak-256 hash,
// in the order eth_getProof returned them (root to leaf), before they are
// handed to the prover.
func traceProofNodes(label string, nodes [][]byte) {
	fmt.Printf("%s proof nodes: %d\n", label, len(nodes))
	for i, node := range nodes {
		fmt.Printf("  [%d] %d bytes, hash: %x\n", i, len(node), crypto.Keccak256(node))
	}
}

func proveNativeCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove-native",
		Usage: "prove a base-layer account balance threshold",
		Flags: commonProveFlags(),
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			log.Info("connecting", "provider", c.String("provider"))
			client, err := rpcfetch.Dial(c.String("provider"))
			if err != nil {
				return err
			}
			defer client.Close()

			userAddr := common.HexToAddress(c.String("address"))
			signature := mustDecodeHex(c.String("signature"))
			message := sig.Format([]byte(c.String("message")))

			log.Info("fetching proof", "address", userAddr, "block", c.Int64("block"))
			in, err := client.FetchNativeInput(ctx, userAddr, c.Int64("block"), c.Uint64("balance"), signature, message)
			if err != nil {
				return err
			}
			if c.Bool("verbose") {
				traceProofNodes("account", in.AccountProof)
			}

			req := prover.NativeRequest{
				Provider:     c.String("provider"),
				UserAddr:     in.UserAddress,
				BlockNumber:  uint64(c.Int64("block")),
				Sig:          in.Signature,
				Msg:          in.Message,
				Balance:      in.ExpectedBalance,
				Root:         in.Root,
				BlockHash:    in.BlockHash,
				AccountProof: in.AccountProof,
			}

			log.Info("proving", "request", req.Description())
			return runAndPersist(ctx, req, c.String("out"))
		},
	}
}

func proveContractCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove-contract",
		Usage: "prove an ERC-20-style storage slot balance threshold",
		Flags: append(commonProveFlags(),
			&cli.StringFlag{Name: "contract", Required: true, Usage: "token contract address"},
			&cli.StringFlag{Name: "slot", Required: true, Usage: "hex-encoded 32-byte balance mapping slot"},
		),
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			client, err := rpcfetch.Dial(c.String("provider"))
			if err != nil {
				return err
			}
			defer client.Close()

			userAddr := common.HexToAddress(c.String("address"))
			contractAddr := common.HexToAddress(c.String("contract"))
			slot := common.HexToHash(c.String("slot"))
			signature := mustDecodeHex(c.String("signature"))
			message := sig.Format([]byte(c.String("message")))

			log.Info("fetching proof", "address", userAddr, "contract", contractAddr, "block", c.Int64("block"))
			in, err := client.FetchContractInput(ctx, contractAddr, userAddr, slot, c.Int64("block"), c.Uint64("balance"), signature, message)
			if err != nil {
				return err
			}
			if c.Bool("verbose") {
				traceProofNodes("storage", in.StorageProof)
			}

			req := prover.ContractRequest{
				Provider:     c.String("provider"),
				UserAddr:     in.UserAddress,
				ContractAddr: in.ContractAddress,
				BalanceSlot:  in.BalanceSlot,
				BlockNumber:  uint64(c.Int64("block")),
				Sig:          in.Signature,
				Msg:          in.Message,
				Balance:      in.ExpectedBalance,
				StorageHash:  in.StorageHash,
				BlockHash:    in.BlockHash,
				StorageProof: in.StorageProof,
			}

			log.Info("proving", "request", req.Description())
			return runAndPersist(ctx, req, c.String("out"))
		},
	}
}

func runAndPersist(ctx context.Context, req prover.Request, outPath string) error {
	client, err := newZkvmClient()
	if err != nil {
		return err
	}

	r, err := prover.Run(ctx, client, req)
	if err != nil {
		return err
	}

	b, err := receipt.WriteJSON(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	log.Info("wrote receipt", "path", outPath)
	return nil
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "verify a receipt written by prove-native or prove-contract",
		ArgsUsage: "<receipt-path> <native|contract>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("usage: ethproof verify <receipt-path> <native|contract>")
			}
			b, err := os.ReadFile(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("read receipt: %w", err)
			}
			r, err := receipt.ReadJSON(b)
			if err != nil {
				return err
			}

			v, err := newZkvmClient()
			if err != nil {
				return err
			}

			switch c.Args().Get(1) {
			case "native":
				out, err := receipt.VerifyNative(v, r)
				if err != nil {
					return err
				}
				fmt.Printf("OK: balance >= %d at block %x\n", out.ExpectedBalance, out.BlockHash)
			case "contract":
				out, err := receipt.VerifyContract(v, r)
				if err != nil {
					return err
				}
				fmt.Printf("OK: balance >= %d on contract %x at block %x\n", out.ExpectedBalance, out.ContractAddress, out.BlockHash)
			default:
				return fmt.Errorf("unknown receipt kind %q", c.Args().Get(1))
			}
			return nil
		},
	}
}

func mustDecodeHex(s string) []byte {
	b, err := hexutil.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("invalid hex argument %q: %v", s, err))
	}
	return b
}
