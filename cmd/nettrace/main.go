package main

import "github.com/verdie-g/nettrace/cmd"

func main() {
	cmd.Execute()
}
