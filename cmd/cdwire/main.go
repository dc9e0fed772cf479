/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/parkerhayes/cdwire/cmd/cdwire/cmd"

func main() {
	cmd.Execute()
}
