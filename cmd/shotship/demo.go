package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/bft-labs/shotship/pkg/log"
	sender "github.com/bft-labs/shotship/pkg/shotship"
)

// poster is the part of the sender the demo driver needs.
type poster interface {
	Post(rec sender.Record, blob []byte) error
}

// demoRecord returns the fixed sample shot: three detections in central Moscow.
func demoRecord() sender.Record {
	return sender.Record{
		ShotLat: 55.751244,
		ShotLon: 37.618423,
		Objects: []sender.Detection{
			{XCenter: 0.5, YCenter: 0.4, Width: 0.05, Height: 0.1, Label: "person"},
			{XCenter: 0.3, YCenter: 0.2, Width: 0.15, Height: 0.3, Label: "car"},
			{XCenter: 0.7, YCenter: 0.8, Width: 0.1, Height: 0.08, Label: "bicycle"},
		},
	}
}

// randomImage returns n random bytes standing in for a JPEG.
func randomImage(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	_, _ = rng.Read(b)
	return b
}

// runDemo posts cfg.count synthetic shots, pausing between them, then waits
// for the settle period so the worker can catch up before shutdown.
func runDemo(ctx context.Context, p poster, cfg demoConfig, logger log.Logger) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < cfg.count; i++ {
		if err := p.Post(demoRecord(), randomImage(rng, cfg.imageBytes)); err != nil {
			return err
		}
		logger.Info("posted demo shot", log.Int("n", i+1), log.Int("of", cfg.count))

		if i < cfg.count-1 && !sleep(ctx, cfg.interval) {
			return nil
		}
	}

	logger.Info("waiting for shots to be sent", log.Duration("settle", cfg.settle))
	sleep(ctx, cfg.settle)
	return nil
}

type demoConfig struct {
	count      int
	interval   time.Duration
	imageBytes int
	settle     time.Duration
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
