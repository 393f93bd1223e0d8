package main

import "github.com/raceview/raceplay/cmd"

func main() {
	cmd.Execute()
}
