// Command eavstore builds federated triple stores from scenario files and
// inspects them.
package main

import (
	"os"

	"github.com/roach88/eavstore/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
