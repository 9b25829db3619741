package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bomanaps/zeam/leansig"
)

const devnetActiveEpochs = 256

func main() {
	count := flag.Int("validators", 5, "Number of keys to generate")
	outDir := flag.String("keys-dir", "keys", "Output directory for keys")
	printYAML := flag.Bool("print-yaml", false, "Print genesis_validators yaml to stdout")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	var pubkeys []string

	fmt.Printf("Generating %d keys in %s...\n", *count, *outDir)
	for i := 0; i < *count; i++ {
		seed := uint64(i)
		kp, err := leansig.GenerateKeypair(seed, 0, devnetActiveEpochs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate keypair %d: %v\n", i, err)
			os.Exit(1)
		}

		skPath := filepath.Join(*outDir, fmt.Sprintf("validator_%d.sk", i))
		if err := leansig.SaveKeypair(kp, skPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save keypair %d: %v\n", i, err)
			os.Exit(1)
		}

		pkBytes := kp.PublicKey().Bytes()
		pubkeys = append(pubkeys, hex.EncodeToString(pkBytes[:]))

		fmt.Printf("Generated keypair %d\n", i)
	}

	if *printYAML {
		fmt.Println("\ngenesis_validators:")
		for _, pk := range pubkeys {
			fmt.Printf("  - \"0x%s\"\n", pk)
		}
	}
}
