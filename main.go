// Package main is the entry point for the motionheic CLI tool.
//
// motionheic is a command-line utility that merges a HEIC still image and a
// companion QuickTime/MP4 movie into a single HEIF file carrying a
// Google-Photos-compatible Motion Photo payload.
package main

import "github.com/ma-tf/motionheic/cmd"

func main() {
	cmd.Execute()
}
