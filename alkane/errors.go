package alkane

import "errors"

// Errors
var (
	ErrUnmarshal        = errors.New("unmarshal failed")
	ErrBadCatalogParam  = errors.New("bad catalog param")
	ErrCatalogMismatch  = errors.New("catalog was built with a different labeller")
	ErrCatalogCorrupt   = errors.New("catalog level does not match its digest")
	ErrLevelNotFound    = errors.New("level not found in catalog")
	ErrReadOnly         = errors.New("catalog is read-only")
	ErrBadCode          = errors.New("bad digit code")
	ErrMalformedCode    = errors.New("digit code is not a well-formed preorder tree")
	ErrValenceExceeded  = errors.New("carbon valence exceeds 4")
	ErrRootNotMax       = errors.New("non-root atom has more bonds than the root")
	ErrCarbonCount      = errors.New("carbon count out of range")
	ErrBadSkeleton      = errors.New("bad skeleton expression")
	ErrBadLabeller      = errors.New("unknown labeller kind")
	ErrBadIndex         = errors.New("unknown signature index kind")
	ErrCapacityExceeded = errors.New("isomer capacity exceeded")
	ErrExport           = errors.New("export failed")
)
