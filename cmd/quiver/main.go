// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Command quiver stores embedding vectors in collections and ranks
// them by similarity.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
