// Command ddsamplerbench stress-tests a ddsampler.Sampler: it builds one
// from a chosen weight distribution, runs a configurable number of
// sample draws, and reports a chi-squared goodness-of-fit statistic
// against the expected distribution and the active-index count.
package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"

	xrand "golang.org/x/exp/rand"

	"github.com/go-ddsampler/ddsampler"
)

func main() {
	app := &cli.App{
		Name:  "ddsamplerbench",
		Usage: "stress and chi-squared harness for ddsampler.Sampler",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 1000, Usage: "number of indices"},
			&cli.IntFlag{Name: "draws", Value: 2_000_000, Usage: "number of Sample draws"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "PRNG seed"},
			&cli.StringFlag{Name: "dist", Value: "uniform", Usage: "weight distribution: uniform, geometric, skewed"},
			&cli.StringFlag{Name: "rng", Value: "v2", Usage: "PRNG implementation: v2 (math/rand/v2) or exp (golang.org/x/exp/rand)"},
			&cli.BoolFlag{Name: "verbose", Usage: "log arena growth/compaction events"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	n := c.Int("n")
	draws := c.Int("draws")
	seed := c.Uint64("seed")

	var cfg *ddsampler.Config
	if c.Bool("verbose") {
		cfg = ddsampler.NewConfig().WithLogger(log.New(os.Stderr, "ddsampler: ", log.LstdFlags))
	}

	s := ddsampler.NewResizable(n, cfg)
	weights, total := buildWeights(n, c.String("dist"))
	for i, w := range weights {
		if err := s.Set(i+1, w); err != nil {
			return fmt.Errorf("seeding index %d: %w", i+1, err)
		}
	}

	sampleOne := samplerFor(c.String("rng"), seed, s)

	counts := make([]float64, n)
	for i := 0; i < draws; i++ {
		idx, err := sampleOne()
		if err != nil {
			return err
		}
		counts[idx-1]++
	}

	expected := make([]float64, n)
	for i, w := range weights {
		expected[i] = float64(draws) * w / total
	}

	chi2 := stat.ChiSquare(counts, expected)
	stats := s.Stats()
	fmt.Printf("n=%d draws=%d dist=%s rng=%s active=%d chi2=%.4f\n",
		n, draws, c.String("dist"), c.String("rng"), stats.ActiveCount, chi2)

	if err := ddsampler.Verify(s); err != nil {
		return fmt.Errorf("post-run invariant check failed: %w", err)
	}
	return nil
}

func buildWeights(n int, dist string) (weights []float64, total float64) {
	weights = make([]float64, n)
	for i := 0; i < n; i++ {
		switch dist {
		case "geometric":
			weights[i] = float64(uint64(1) << uint(i%50))
		case "skewed":
			if i == 0 {
				weights[i] = float64(n) * 1e6
			} else {
				weights[i] = 1
			}
		default: // uniform
			weights[i] = float64(i%997) + 1
		}
		total += weights[i]
	}
	return weights, total
}

// samplerFor returns a closure drawing one sample with the requested
// PRNG implementation, so the harness can exercise both RandSource
// sources the sampler accepts with no adapter code on the hot path.
func samplerFor(name string, seed uint64, s ddsampler.Sampler) func() (int, error) {
	if name == "exp" {
		src := xrand.New(xrand.NewSource(seed))
		return func() (int, error) { return s.Sample(src) }
	}
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() (int, error) { return s.Sample(src) }
}
