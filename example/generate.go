// Package example holds sample definitions in the gen-sources layout.
// Artifacts land in target/generated-sources/eventor.
package example

//go:generate go run ../cmd/eventor-gen --config eventor.yaml gen-sources --base-dir .
