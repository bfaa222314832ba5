package main

import "github.com/kamusis/coef-cli/cmd"

func main() {
	cmd.Execute()
}
