package main

import "github.com/theirongolddev/energipro/cmd"

func main() {
	cmd.Execute()
}
