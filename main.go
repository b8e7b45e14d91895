// main.go - Application entry point
package main

import "github.com/valpere/mvt-reader/cmd"

func main() {
	cmd.Execute()
}
