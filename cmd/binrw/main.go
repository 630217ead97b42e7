package main

import (
	"log"

	"github.com/rawbytedev/binrw/cmd/binrw/cmd"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("binrw: ")
	cmd.Execute()
}
