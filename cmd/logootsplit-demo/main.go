// Command logootsplit-demo simulates concurrently editing replicas and
// verifies that they converge after exchanging operations in arbitrary
// interleavings.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"github.com/sanity-io/litter"
	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/logootsplit/rename"
	"github.com/dshills/logootsplit/wire"
)

const (
	letters  = "abcdefghijklmnopqrstuvwxyz"
	seedText = "the quick brown fox jumps over the lazy dog"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "TOML scenario file")
		replicas   = flag.Int("replicas", 0, "override replica count")
		operations = flag.Int("ops", 0, "override operations per replica")
		seed       = flag.Int64("seed", 0, "override random seed")
	)
	flag.Parse()
	log.SetPrefix("logootsplit-demo: ")
	log.SetFlags(0)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			log.Printf("error: %v", err)
			return 1
		}
	}
	if *replicas > 0 {
		cfg.Replicas = *replicas
	}
	if *operations > 0 {
		cfg.Operations = *operations
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.validate(); err != nil {
		log.Printf("error: %v", err)
		return 1
	}

	docID := uuid.New()
	log.Printf("document %s: %d replicas x %d ops, seed %d", docID, cfg.Replicas, cfg.Operations, cfg.Seed)

	lists := make([]*rename.List, cfg.Replicas)
	for r := range lists {
		lists[r] = rename.New(int32(r))
	}

	// Everyone starts from the same seed document.
	seedData, err := wire.Encode(lists[0].Insert(0, seedText))
	if err != nil {
		log.Printf("error: %v", err)
		return 1
	}
	for r := 1; r < len(lists); r++ {
		op, err := wire.Decode(seedData)
		if err != nil {
			log.Printf("error: %v", err)
			return 1
		}
		lists[r].Apply(op)
	}

	// Phase 1: every replica edits locally and records its encoded ops.
	recorded := make([][][]byte, cfg.Replicas)
	var edit errgroup.Group
	for r := range lists {
		edit.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(r)))
			l := lists[r]
			for i := 0; i < cfg.Operations; i++ {
				if cfg.Rename && r == 0 && i == cfg.Operations/2 && l.Len() > 0 {
					data, err := wire.Encode(l.Rename())
					if err != nil {
						return err
					}
					recorded[r] = append(recorded[r], data)
				}
				data, err := wire.Encode(randomEdit(l, rng))
				if err != nil {
					return err
				}
				recorded[r] = append(recorded[r], data)
			}
			return nil
		})
	}
	if err := edit.Wait(); err != nil {
		log.Printf("error: edit phase: %v", err)
		return 1
	}

	// Phase 2: every replica applies everyone else's stream, interleaved in
	// its own random order. Per-source order is kept, as a FIFO transport
	// would.
	var apply errgroup.Group
	for r := range lists {
		apply.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed ^ int64(r+1)))
			for _, data := range interleave(rng, recorded, r) {
				op, err := wire.Decode(data)
				if err != nil {
					return err
				}
				lists[r].Apply(op)
			}
			return nil
		})
	}
	if err := apply.Wait(); err != nil {
		log.Printf("error: apply phase: %v", err)
		return 1
	}

	// Phase 3: report and verify convergence.
	for r, l := range lists {
		text := l.String()
		if len(text) > 48 {
			text = text[:48] + "..."
		}
		log.Printf("replica %d: epoch %s len %d digest %016x %q",
			r, l.CurrentEpoch(), l.Len(), l.Digest(), text)
	}
	for r := 1; r < len(lists); r++ {
		if lists[r].Digest() != lists[0].Digest() || lists[r].String() != lists[0].String() {
			log.Printf("error: replica %d diverged from replica 0", r)
			return 1
		}
	}
	log.Printf("converged: %d replicas, %d elements", cfg.Replicas, lists[0].Len())
	log.Printf("tree shape: %s", litter.Sdump(lists[0].Stats()))

	if len(recorded[0]) > 0 {
		fmt.Printf("sample operation:\n%s", pretty.Pretty(recorded[0][0]))
	}
	return 0
}

// interleave merges the streams of every source but self into one random
// interleaving that preserves each source's order.
func interleave(rng *rand.Rand, streams [][][]byte, self int) [][]byte {
	heads := make([]int, len(streams))
	total := 0
	for s, ops := range streams {
		if s != self {
			total += len(ops)
		}
	}
	out := make([][]byte, 0, total)
	for len(out) < total {
		s := rng.Intn(len(streams))
		if s == self || heads[s] >= len(streams[s]) {
			continue
		}
		out = append(out, streams[s][heads[s]])
		heads[s]++
	}
	return out
}

// randomEdit performs one random local edit, biased toward insertion so the
// document grows.
func randomEdit(l *rename.List, rng *rand.Rand) rename.Op {
	if l.Len() > 0 && rng.Intn(4) == 0 {
		begin := rng.Intn(l.Len())
		end := min(l.Len()-1, begin+rng.Intn(3))
		return l.Delete(begin, end)
	}
	n := 1 + rng.Intn(4)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = letters[rng.Intn(len(letters))]
	}
	return l.Insert(rng.Intn(l.Len()+1), string(buf))
}
