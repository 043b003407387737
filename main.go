package main

import "github.com/umpire274/timelog/cmd"

func main() {
	cmd.Execute()
}
