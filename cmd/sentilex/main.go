package main

import "github.com/spacesedan/sentilex/cmd/sentilex/cmd"

func main() {
	cmd.Execute()
}
