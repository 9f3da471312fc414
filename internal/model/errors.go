package model

import "errors"

var (
	// ErrDataUnavailable means a source file could not be read or parsed as a
	// table with the required columns. Fatal to the session: no partial views.
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrUnknownView means the requested view is not in the supported set.
	ErrUnknownView = errors.New("unknown view")
)
