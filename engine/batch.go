package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batch calculates every request concurrently and returns results in
// input order. A failing bond never aborts the batch; its Result carries
// the Failure. Cancellation of ctx stops scheduling new work and marks
// the unprocessed remainder as invalid requests.
func (e *Engine) Batch(ctx context.Context, reqs []Request) []Result {
	out := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			out[i] = Result{
				Identifier: req.Identifier,
				Failure: &Failure{
					Kind:       FailureInvalidRequest,
					Identifier: req.Identifier,
					Path:       "batch",
					Reason:     err.Error(),
				},
			}
			continue
		}
		i, req := i, req
		g.Go(func() error {
			out[i] = e.Calculate(req)
			return nil
		})
	}
	g.Wait()

	e.log.Info().Int("bonds", len(reqs)).Msg("batch complete")
	return out
}
