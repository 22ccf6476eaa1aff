package main

import "github.com/arloliu/starbin/cmd"

func main() {
	cmd.Execute()
}
