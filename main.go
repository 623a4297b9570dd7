package main

import "github.com/alec-rabold/zipbuddy/cmd"

// version is set during build with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd.Execute(version)
}
