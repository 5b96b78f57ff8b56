// Package promotion evaluates promotional rules against a customer and a
// cart. Rules come from a Store that is re-read before every operation, so
// campaign changes are visible without cache invalidation. Only promotions of
// active campaigns whose validity window contains the current time are ever
// considered.
//
// FindAutomatic picks at most one auto-apply discount; ApplyCode validates a
// typed code and reports failures as *Rejection errors; ListForSeller explains
// why each rule does or does not apply. Merge enforces that manual and
// code-entry discounts supersede automatic ones on the caller's discount list.
//
// RecordUsage is not atomic across processes sharing one backing store;
// concurrent sales against a capped promotion can exceed its cap.
package promotion
