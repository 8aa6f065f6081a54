package platform

import "errors"

// ErrUpstreamUnavailable reports that the streaming platform could not be
// reached or returned an unusable response (network error, timeout,
// non-2xx status, malformed body). Callers distinguish it from an empty
// but successful response.
var ErrUpstreamUnavailable = errors.New("upstream platform unavailable")
