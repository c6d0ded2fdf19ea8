// Command pacer serves the Pacer marketing site and runs its maintenance
// tasks.
//
// Configuration is read, lowest priority first, from built-in defaults, a
// YAML file (--config, PACER_CONFIG_FILE or .pacer.yml in the working
// directory) and PACER_* environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
