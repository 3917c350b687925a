package main

import "github.com/theirongolddev/orgchart/cmd"

func main() {
	cmd.Execute()
}
