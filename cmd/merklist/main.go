// Command merklist builds a uint64 vector from a JSON array of integers
// and prints its Merkle root, exercising the packed vector codec and
// the in-memory reference backend end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	ssz "github.com/sorpaas/merklist"
	"github.com/sorpaas/merklist/merkletree/memdb"
)

func main() {
	var maxLen uint64
	flag.Uint64Var(&maxLen, "max-len", 0, "fix the vector's capacity (elements); 0 selects dynamic growth")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: merklist [-max-len N] '[1,2,3]'")
		os.Exit(2)
	}

	var values []uint64
	if err := json.Unmarshal([]byte(args[0]), &values); err != nil {
		log.Fatalf("parsing JSON array: %v", err)
	}

	db := memdb.New()

	var maxElements *uint64
	if maxLen > 0 {
		maxElements = &maxLen
	}

	vec, err := ssz.NewPackedVector(db, ssz.Uint64Codec, uint64(len(values)), maxElements)
	if err != nil {
		log.Fatalf("creating vector: %v", err)
	}

	for i, v := range values {
		if err := vec.Set(db, uint64(i), v); err != nil {
			log.Fatalf("setting element %d: %v", i, err)
		}
	}

	root := vec.Root()
	fmt.Printf("%x\n", root)

	if err := vec.Drop(db); err != nil {
		log.Fatalf("dropping vector: %v", err)
	}
}
