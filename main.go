package main

import "burritowatch/cmd"

func main() {
	cmd.Execute()
}
