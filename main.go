package main

import "github.com/yuzeguitarist/qrdrop/internal/cmd"

func main() {
	cmd.Execute()
}
