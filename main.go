package main

import "github.com/theirongolddev/gitlore/cmd"

func main() {
	cmd.Execute()
}
