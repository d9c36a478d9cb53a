package datastore

import (
	"context"
	"log/slog"
)

// Probe checks backend reachability once at startup. Failures are logged
// and swallowed; the process keeps serving and the first real operation
// surfaces the problem to its caller.
func (s *Service) Probe(ctx context.Context) {
	if s.backend == nil {
		slog.WarnContext(ctx, "no data backend configured, starting degraded")
		return
	}
	if err := s.backend.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "backend unreachable at startup", "backend", s.name, "error", err)
		return
	}
	slog.InfoContext(ctx, "backend reachable", "backend", s.name)
}
