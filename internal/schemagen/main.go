package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/ktconf/pkg/config"
)

var outFile = flag.String("o", "ktconf.v1beta1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	jsData, err := config.Schema()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write schema file.
	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
