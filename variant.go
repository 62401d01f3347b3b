package ddsampler

import (
	"fmt"

	"github.com/go-ddsampler/ddsampler/internal/core"
	"github.com/go-ddsampler/ddsampler/internal/dderrors"
	"github.com/go-ddsampler/ddsampler/internal/fbits"
)

// capability distinguishes the three storage variants. One engine type
// backs all three; only the resize policy they enforce differs, so this
// is a tag on a shared struct rather than a type per variant.
type capability int

const (
	fixedCapability capability = iota
	semiResizableCapability
	resizableCapability
)

// sampler is the shared implementation behind Fixed, SemiResizable, and
// Resizable. The exported constructors are the only way to obtain one.
type sampler struct {
	core *core.Core
	cap  capability
	// maxCapacity bounds Resize for semiResizableCapability; unused
	// otherwise.
	maxCapacity int
}

// NewFixed returns a Sampler over n indices whose length can never
// change after construction. cfg may be nil for the default Config.
func NewFixed(n int, cfg *Config) Sampler {
	return newSampler(n, fixedCapability, 0, cfg)
}

// NewSemiResizable returns a Sampler over n indices that can be resized
// to any length in [0, maxCapacity] without reallocating past that
// bound. cfg may be nil for the default Config.
func NewSemiResizable(n, maxCapacity int, cfg *Config) Sampler {
	return newSampler(n, semiResizableCapability, maxCapacity, cfg)
}

// NewResizable returns a Sampler over n indices that can be resized to
// any non-negative length. cfg may be nil for the default Config.
func NewResizable(n int, cfg *Config) Sampler {
	return newSampler(n, resizableCapability, 0, cfg)
}

func newSampler(n int, cap capability, maxCapacity int, cfg *Config) *sampler {
	c := core.New(n)
	c.SetLogger(cfg.logf())
	return &sampler{core: c, cap: cap, maxCapacity: maxCapacity}
}

func (s *sampler) Len() int { return s.core.Len() }

func (s *sampler) Get(i int) (float64, error) { return s.core.Get(i) }

func (s *sampler) Set(i int, w float64) error { return s.core.Set(i, w) }

// Insert is Set restricted to nonzero weights, auto-growing Len when i
// exceeds it and the storage variant permits resize; on a variant that
// does not, it returns the same NotResizableError Resize would.
func (s *sampler) Insert(i int, w float64) error {
	if w == 0 {
		return dderrors.NewInvalidWeight(w, "Insert requires a nonzero weight; use Remove to clear an index")
	}
	if ok, reason := fbits.Validate(w); !ok {
		return dderrors.NewInvalidWeight(w, reason)
	}
	if i > s.core.Len() {
		if err := s.Resize(i); err != nil {
			return err
		}
	}
	return s.core.Set(i, w)
}

func (s *sampler) Remove(i int) error { return s.core.Set(i, 0) }

func (s *sampler) InsertMany(idxs []int, ws []float64) error {
	if len(idxs) != len(ws) {
		return fmt.Errorf("ddsampler: InsertMany: idxs has length %d, ws has length %d", len(idxs), len(ws))
	}
	for j, i := range idxs {
		if err := s.Insert(i, ws[j]); err != nil {
			return err
		}
	}
	return nil
}

func (s *sampler) Resize(n int) error {
	if n < 0 {
		return dderrors.NewOutOfBounds(n, s.core.Len())
	}
	switch s.cap {
	case fixedCapability:
		if n != s.core.Len() {
			return dderrors.NewNotResizable(n, 0)
		}
		return nil
	case semiResizableCapability:
		if n > s.maxCapacity {
			return dderrors.NewNotResizable(n, s.maxCapacity)
		}
	}
	s.core.Resize(n)
	return nil
}

func (s *sampler) Sample(rng RandSource) (int, error) { return s.core.Sample(rng) }

func (s *sampler) Stats() Stats {
	snap := s.core.Stats()
	return Stats{
		Len:         s.core.Len(),
		ActiveCount: snap.ActiveCount,
		Total:       snap.TotalWeight,
		MinWeight:   snap.MinWeight,
		MaxWeight:   snap.MaxWeight,
	}
}

func (s *sampler) verify() error { return s.core.Verify() }
