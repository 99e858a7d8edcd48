// Command vecdb-cli is a local, in-process demonstration of the three
// index types: it loads vectors from a JSON file, builds the requested
// index, and runs a query against it, logging each step through the
// observability package.
//
// Grounded on the teacher's cmd/cli/main.go for the subcommand/flag.FlagSet
// shape (global flags parsed first, then a per-command flag set); the
// gRPC client plumbing (connectToServer, proto request/response types) is
// dropped since there is no server here — see DESIGN.md.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vecdbgo/vecdb/internal/quantization"
	"github.com/vecdbgo/vecdb/pkg/config"
	"github.com/vecdbgo/vecdb/pkg/flat"
	"github.com/vecdbgo/vecdb/pkg/hnsw"
	"github.com/vecdbgo/vecdb/pkg/index"
	"github.com/vecdbgo/vecdb/pkg/ivf"
	"github.com/vecdbgo/vecdb/pkg/observability"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build-search":
		handleBuildSearch(os.Args[2:])
	case "version":
		fmt.Printf("vecdb-cli version %s\n", version)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		showUsage()
		os.Exit(1)
	}
}

func handleBuildSearch(args []string) {
	fs := flag.NewFlagSet("build-search", flag.ExitOnError)
	var (
		kind       = fs.String("index", "flat", "index type: flat, ivf, or hnsw")
		dataPath   = fs.String("data", "", "path to a JSON file holding an array of equal-length float arrays (required)")
		queryStr   = fs.String("query", "", "query vector as a JSON array (required)")
		k          = fs.Int("k", 10, "number of neighbors to return")
		nlist      = fs.Int("nlist", 16, "ivf: number of coarse cells")
		nprobe     = fs.Int("nprobe", 4, "ivf: cells probed per query")
		hnswM      = fs.Int("m", 0, "hnsw: connections per layer (0 = config default)")
		efSearch   = fs.Int("ef-search", 0, "hnsw: query-time beam width (0 = config default)")
		verbose    = fs.Bool("verbose", false, "log each step via the structured logger")
	)
	fs.Parse(args)

	if *dataPath == "" || *queryStr == "" {
		fmt.Println("error: -data and -query are required")
		fs.Usage()
		os.Exit(1)
	}

	logger := observability.NewDefaultLogger()
	if *verbose {
		logger.SetLevel(observability.DEBUG)
	} else {
		logger.SetLevel(observability.INFO)
	}

	vectors, dim, err := loadVectors(*dataPath)
	if err != nil {
		logger.Fatalf("failed to load vectors: %v", err)
	}
	query, err := parseVector(*queryStr)
	if err != nil {
		logger.Fatalf("failed to parse query: %v", err)
	}
	if len(query) != dim {
		logger.Fatalf("query dimension %d does not match data dimension %d", len(query), dim)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	idx, err := buildIndex(*kind, dim, len(vectors), cfg, *nlist, *nprobe, *hnswM, *efSearch)
	if err != nil {
		logger.Fatalf("failed to build index: %v", err)
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	flatVecs := flatten(vectors)
	err = logger.LogOperation(fmt.Sprintf("populate %s index", *kind), func() error {
		if err := idx.Train(flatVecs, len(vectors)); err != nil {
			return err
		}
		return idx.Add(flatVecs, len(vectors))
	})
	if err != nil {
		logger.Fatalf("failed to populate index: %v", err)
	}
	metrics.RecordInsert(*kind, len(vectors), idx.Ntotal())

	if hnswIdx, ok := idx.(*hnsw.Index); ok {
		metrics.UpdateIndexMaxLayer(*kind, hnswIdx.MaxLevel())
	}

	start := time.Now()
	dists, ids, err := idx.Search(query, 1, *k)
	elapsed := time.Since(start)
	if err != nil {
		logger.Fatalf("search failed: %v", err)
	}

	resultSize := 0
	for _, id := range ids {
		if id >= 0 {
			resultSize++
		}
	}
	metrics.RecordSearch(elapsed, resultSize)

	if *kind != "flat" {
		recall := recallAgainstFlat(flatVecs, len(vectors), dim, query, *k, ids)
		metrics.RecordRecall(float64(recall))
		logger.Infof("recall@%d against brute-force ground truth: %.3f", *k, recall)
	}

	logger.Infof("search completed in %s against %d vectors", elapsed, idx.Ntotal())
	for i := range ids {
		if ids[i] < 0 {
			fmt.Printf("%2d. (no result)\n", i+1)
			continue
		}
		fmt.Printf("%2d. id=%d dist=%.6f\n", i+1, ids[i], dists[i])
	}
}

// recallAgainstFlat computes recall@k of ids against a brute-force ground
// truth search over the same data, using ComputeRecall's parallel
// ground-truth/result comparison.
func recallAgainstFlat(flatVecs []float32, n, dim int, query []float32, k int, ids []int64) float32 {
	ground := flat.New(dim)
	if err := ground.Add(flatVecs, n); err != nil {
		return 0
	}
	_, groundIDs, err := ground.Search(query, 1, k)
	if err != nil {
		return 0
	}
	return quantization.ComputeRecall([][]int64{groundIDs}, [][]int64{ids}, k)
}

func buildIndex(kind string, dim, n int, cfg *config.Config, nlist, nprobe, hnswM, efSearch int) (index.Index, error) {
	switch kind {
	case "flat":
		return flat.New(dim), nil
	case "ivf":
		if nlist <= 0 {
			nlist = cfg.IVF.NList
		}
		if nlist > n {
			nlist = n
		}
		ix := ivf.NewWithSeed(dim, nlist, cfg.IVF.Seed)
		if nprobe > 0 {
			ix.SetNProbe(nprobe)
		} else {
			ix.SetNProbe(cfg.IVF.NProbe)
		}
		return ix, nil
	case "hnsw":
		m := hnswM
		if m <= 0 {
			m = cfg.HNSW.M
		}
		ef := efSearch
		if ef <= 0 {
			ef = cfg.HNSW.DefaultEfSearch
		}
		ix := hnsw.NewWithConfig(hnsw.Config{D: dim, M: m, EfConstruction: cfg.HNSW.EfConstruction, EfSearch: ef, Seed: cfg.HNSW.Seed})
		return ix, nil
	default:
		return nil, fmt.Errorf("unknown index type %q (want flat, ivf, or hnsw)", kind)
	}
}

func loadVectors(path string) ([][]float32, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%s contains no vectors", path)
	}

	dim := len(rows[0])
	vectors := make([][]float32, len(rows))
	for i, row := range rows {
		if len(row) != dim {
			return nil, 0, fmt.Errorf("row %d has dimension %d, want %d", i, len(row), dim)
		}
		v := make([]float32, dim)
		for j, x := range row {
			v[j] = float32(x)
		}
		vectors[i] = v
	}
	return vectors, dim, nil
}

func parseVector(s string) ([]float32, error) {
	var raw []float64
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	v := make([]float32, len(raw))
	for i, x := range raw {
		v[i] = float32(x)
	}
	return v, nil
}

func flatten(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	out := make([]float32, 0, len(vectors)*dim)
	for _, v := range vectors {
		out = append(out, v...)
	}
	return out
}

func showUsage() {
	fmt.Println(strings.TrimSpace(`
vecdb-cli - local demonstration of the flat, ivf, and hnsw indexes

Usage:
  vecdb-cli <command> [options]

Commands:
  build-search   Build an index from a JSON vector file and run one query
  version        Show version
  help           Show this help message

Examples:

  vecdb-cli build-search -data vectors.json -query '[0.1,0.2,0.3,0.4]' -index flat -k 5
  vecdb-cli build-search -data vectors.json -query '[0.1,0.2,0.3,0.4]' -index ivf -nlist 32 -nprobe 8
  vecdb-cli build-search -data vectors.json -query '[0.1,0.2,0.3,0.4]' -index hnsw -m 16 -ef-search 64 -verbose
`))
}
