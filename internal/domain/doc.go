// Package domain contains the value types of the scheduler: the per-item
// memory state, the review observation a host reports, and the records the
// selection queries return. It is independent of any storage or delivery
// mechanism.
package domain
