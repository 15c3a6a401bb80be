// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command tutor-agent runs the A2A tutor agent server.
package main

func main() {
	Execute()
}
