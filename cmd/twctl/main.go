package main

import "github.com/tabwarden/tabwarden/cmd/twctl/arg"

func main() {
	arg.Execute()
}
