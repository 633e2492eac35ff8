package main

import (
	"os"
)

// Version is set during build via ldflags:
// go build -ldflags "-X main.Version=v1.2.3"
var Version = "dev"

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
