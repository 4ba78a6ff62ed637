// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import "errors"

// Errors reported by the readers. Callers test them with errors.Is.
//
// ErrUnsupportedVersion and ErrMalformedHeader abort the file.
// ErrMalformedField and ErrIncompleteEpoch discard one record or epoch.
// ErrNoEphemeris and ErrObsTypeUnavailable come with an empty result.
// ErrUnexpectedEOF discards the partial block and ends the stream.
var (
	ErrUnsupportedVersion = errors.New("unsupported RINEX version or type")
	ErrMalformedHeader    = errors.New("malformed header")
	ErrMalformedField     = errors.New("malformed field")
	ErrIncompleteEpoch    = errors.New("incomplete epoch")
	ErrNoEphemeris        = errors.New("no ephemeris available")
	ErrObsTypeUnavailable = errors.New("observation type unavailable")
	ErrUnexpectedEOF      = errors.New("unexpected end of stream")
)
