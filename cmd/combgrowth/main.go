package main

import "github.com/MeKo-Tech/combgrowth/cmd/combgrowth/cmd"

func main() {
	cmd.Execute()
}
