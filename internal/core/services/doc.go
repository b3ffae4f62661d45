// Package services implements the driving ports: the chunk pipeline that
// turns the dump into the passage store, and the resumable upload pipeline
// that turns the passage store into vector-index points.
//
// Services orchestrate; all I/O happens behind driven-port interfaces so
// tests can substitute fakes for the dump, the store, the embedder and
// the index.
package services
