package main

import "patient-sync/cmd"

func main() {
	cmd.Execute()
}
