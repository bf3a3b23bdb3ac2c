package gitforum

import "errors"

// ErrNotLoaded is returned by view operations invoked before Load.
var ErrNotLoaded = errors.New("gitforum: view not loaded")
