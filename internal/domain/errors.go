package domain

import "errors"

var (
	// ErrUpstream marks a failure of the external advisor (unreachable,
	// rate limited, or unparseable output). Fatal to the request it occurred
	// in, never to the service.
	ErrUpstream = errors.New("upstream advisor failure")

	// ErrEmptyExtraction is returned when the advisor produced no usable
	// line items for a bill.
	ErrEmptyExtraction = errors.New("no line items extracted from bill")
)
