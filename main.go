package main

import (
	"log"

	"github.com/spf13/cobra"
)

const releaseVersion = "0.4.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	cobra.CheckErr(newRootCmd().Execute())
}
