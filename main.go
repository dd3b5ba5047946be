// SPDX-License-Identifier: MIT
// Copyright (c) 2026, The envgate authors.

package main

import (
	cmd "github.com/envgate/envgate/cmd"
)

func main() {
	cmd.Execute()
}
