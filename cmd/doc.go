// Package cmd implements the callminder command line interface: the serve
// command running the HTTP service and the dispatch command for one-shot
// reminder passes.
package cmd
