package main

import "github.com/oshokin/proctor-alert/cmd/proctor-monitor/cmd"

func main() {
	cmd.Execute()
}
