package main

import "github.com/nextlevelbuilder/danangbot/cmd"

func main() {
	cmd.Execute()
}
