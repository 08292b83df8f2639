// Package abook provides embedded runtime resources for the abook binary.
package abook

import _ "embed"

// ExampleConfig is the annotated default configuration written by
// "abook init-config".
//
//go:embed config.example.yaml
var ExampleConfig []byte
