// Command guidelight-display runs Display Mode on a kiosk: it signs in,
// bootstraps the staff session and keeps a board rendered as text.
package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	exitSuccess   = 0
	exitUserError = 1
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}
