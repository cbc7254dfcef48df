package main

import (
	"os"

	"github.com/go-m365-admin/go-m365-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
