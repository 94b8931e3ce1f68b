package main

import "github.com/crossdept/feedback-platform/cmd"

func main() {
	cmd.Execute()
}
