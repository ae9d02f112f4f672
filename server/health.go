package server

import (
	"context"
	"os"

	"github.com/kbukum/seqkit/observability"
)

// planDirsCheck reports degraded when a configured plan directory is missing.
func planDirsCheck(dirs []string) observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		h := observability.Health{Name: "plans", Status: observability.HealthStatusUp}
		for _, dir := range dirs {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				h.Status = observability.HealthStatusDegraded
				if h.Details == nil {
					h.Details = make(map[string]string)
				}
				h.Details[dir] = "not a directory"
			}
		}
		return h
	})
}
