package main

import "github.com/khrees2412/placement/cmd"

func main() {
	cmd.Execute()
}
