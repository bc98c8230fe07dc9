// Command keygen prints a fresh pair of signing keys in the format the
// server reads from the environment.
package main

import (
	"fmt"
	"log"

	"github.com/Mal-back/cal-tracker/internal/common"
)

const keySize = 64

func main() {
	for _, name := range []string{"SERVICE_PWD_KEY", "SERVICE_TOKEN_KEY"} {
		k, err := common.GenerateKeyB64U(keySize)
		if err != nil {
			log.Fatalf("generate %s: %v", name, err)
		}
		fmt.Printf("%s=%s\n", name, k)
	}
}
