package main

import "github.com/shahrukhsaba/duke/cli"

func main() {
	cli.Execute()
}
