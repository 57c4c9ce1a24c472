package main

import (
	"log"

	"skinsight.app/skinsight/internal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
