package contractor

import "errors"

var (
	ErrContractorNotFound   = errors.New("contractor not found")
	ErrMalformedSchedule    = errors.New("malformed work schedule")
	ErrAutoClockingDisabled = errors.New("auto-clocking is not enabled for this contractor")
)
