// Copyright © 2025 The Refract authors

package main

import "github.com/refract-tools/refract/cmd"

func main() {
	cmd.Execute()
}
