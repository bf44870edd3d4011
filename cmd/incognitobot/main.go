package main

import (
	"os"

	"github.com/LOLLOVANDEV/incognitobot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
