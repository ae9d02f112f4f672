// Package resilience bounds concurrent work.
//
// A Bulkhead admits at most MaxConcurrent calls at a time. Callers past the
// limit wait up to MaxWait for a slot and are then rejected with an
// OVERLOADED AppError:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "evaluate", MaxConcurrent: 8})
//	result, err := resilience.ExecuteWithResult(ctx, bh, func(ctx context.Context) (any, error) {
//	    return plan.Evaluate(ctx, p, items)
//	})
package resilience
