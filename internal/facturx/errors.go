package facturx

import "errors"

var (
	// ErrUnknownProfile is returned for a profile name outside BASIC,
	// EN16931 and EXTENDED.
	ErrUnknownProfile = errors.New("unknown Factur-X profile")
)
