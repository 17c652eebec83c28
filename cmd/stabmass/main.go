// SPDX-License-Identifier: MIT

// Package main provides the stabmass binary: masses, HN filtrations and
// RHom dimensions of derived objects, plus sampled mass surfaces stored in
// SQLite.
package main

import (
	"fmt"
	"os"
	"runtime"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "stabmass"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
