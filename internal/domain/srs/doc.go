// Package srs implements the SM-2+ spaced repetition scheduler.
//
// The package is pure: every function is a deterministic computation over
// caller-supplied values with no I/O and no shared state. Models are passed
// and returned by value, so concurrent callers working on different items
// never contend. Concurrent updates to the same item must be serialized by
// the caller.
//
// Basic usage:
//
//	svc := srs.NewDefaultService()
//	obs, err := domain.NewReviewObservation(4, 2*time.Second, 5)
//	if err != nil {
//	    return err
//	}
//	next, err := svc.CalculateNextReview(model, obs, time.Now())
//
// DueNow, DueWithin and LoadBalancer select items for review, and
// PredictRetention projects a model's forgetting curve.
package srs
