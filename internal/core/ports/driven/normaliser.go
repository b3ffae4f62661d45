package driven

// TextNormaliser converts raw wiki markup into clean plain text.
//
// The contract is deliberately loose: conversion is best-effort, and
// unparseable input degrades to an empty string rather than an error, so
// one bad article never aborts a whole run.
type TextNormaliser interface {
	// Normalise returns the plain-text rendering of the given markup,
	// or "" when the markup cannot be parsed.
	Normalise(raw string) string
}
