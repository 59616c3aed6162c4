// cmd/tempbridge/main.go
package main

import (
	"os"

	"github.com/tamzrod/modbus-tempbridge/cmd/tempbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
