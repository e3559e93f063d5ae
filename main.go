package main

import "github.com/KaramelBytes/csvdash-cli/cmd"

func main() {
	cmd.Execute()
}
