package main

import "github.com/MeKo-Tech/boxlabel/cmd/boxlabel/cmd"

func main() {
	cmd.Execute()
}
