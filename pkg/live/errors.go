package live

import "errors"

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("live: stream closed")
