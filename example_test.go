package annlab_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/annlab"
	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/testutil"
	"github.com/hupe1980/annlab/vecfile"
)

func Example() {
	ctx := context.Background()

	// A tiny synthetic dataset in an in-memory store.
	store := blobstore.NewMemoryStore()
	rng := testutil.NewRNG(42)
	_ = vecfile.Save(ctx, store, "base.fvecs", rng.UniformMatrix(1000, 32))
	_ = vecfile.Save(ctx, store, "query.fvecs.zst", rng.UniformMatrix(50, 32))

	lab := annlab.New(annlab.WithStore(store))

	rep, err := lab.Run(ctx, annlab.Experiment{
		Name:    "example",
		Base:    "base.fvecs",
		Queries: "query.fvecs.zst",
		K:       10,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("recall=%.2f recall@k=%.2f footprint=%d bytes\n", rep.Recall, rep.RecallAtK, rep.FootprintBytes)
	// Output:
	// recall=1.00 recall@k=1.00 footprint=128020 bytes
}
