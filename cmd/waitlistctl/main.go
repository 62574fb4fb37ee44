// File: cmd/waitlistctl/main.go
package main

import (
	"os"

	"bridgex_waitlist/cmd/waitlistctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
