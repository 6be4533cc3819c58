/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mikesmitty/dew/cmd"

func main() {
	cmd.Execute()
}
