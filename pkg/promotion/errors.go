package promotion

import "errors"

// Reason explains why a rule cannot be used.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNotFound          Reason = "not_found"
	ReasonNotEligible       Reason = "not_eligible"
	ReasonUsageExhausted    Reason = "usage_exhausted"
	ReasonZeroValue         Reason = "zero_value"
	ReasonWrongSegment      Reason = "wrong_segment"
	ReasonFirstPurchaseOnly Reason = "first_purchase_only"
	ReasonBelowMinimum      Reason = "below_minimum"
	ReasonUsageCapReached   Reason = "usage_cap_reached"
	ReasonProductsExcluded  Reason = "products_excluded"
)

// Message returns the text shown to the salesperson.
func (r Reason) Message() string {
	switch r {
	case ReasonNotFound:
		return "Promotion code not found"
	case ReasonNotEligible:
		return "The customer does not meet the promotion conditions"
	case ReasonUsageExhausted:
		return "The promotion has reached its usage limit"
	case ReasonZeroValue:
		return "The promotion does not produce a discount for this sale"
	case ReasonWrongSegment:
		return "Not available for the customer's segment"
	case ReasonFirstPurchaseOnly:
		return "Only valid on the customer's first purchase"
	case ReasonBelowMinimum:
		return "Sale amount is below the promotion minimum"
	case ReasonUsageCapReached:
		return "Usage limit reached"
	case ReasonProductsExcluded:
		return "No product in the cart qualifies"
	default:
		return ""
	}
}

// Sentinel errors matched with errors.Is against a *Rejection.
var (
	ErrNotFound       = errors.New("promotion: code not found")
	ErrNotEligible    = errors.New("promotion: not eligible")
	ErrUsageExhausted = errors.New("promotion: usage exhausted")
	ErrZeroValue      = errors.New("promotion: zero value discount")
)

// Rejection is returned when a code cannot be applied. Detail carries the
// eligibility reason behind ErrNotEligible.
type Rejection struct {
	Reason Reason
	Detail Reason
	Code   string
}

func (r *Rejection) Error() string {
	msg := r.Reason.Message()
	if r.Detail != ReasonNone {
		msg += ": " + r.Detail.Message()
	}
	return msg
}

// Is lets errors.Is match the sentinel for the rejection reason.
func (r *Rejection) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return r.Reason == ReasonNotFound
	case ErrNotEligible:
		return r.Reason == ReasonNotEligible
	case ErrUsageExhausted:
		return r.Reason == ReasonUsageExhausted
	case ErrZeroValue:
		return r.Reason == ReasonZeroValue
	}
	return false
}

func reject(reason Reason, code string) *Rejection {
	return &Rejection{Reason: reason, Code: code}
}
