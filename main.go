package main

import "github.com/KaramelBytes/olympeda/cmd"

func main() {
	cmd.Execute()
}
