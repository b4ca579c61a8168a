package main

import (
	"fmt"
	"os"
)

// @title Tarantula Log API
// @version 1.0
// @description Registro de ejemplares, mudas, salud y cruzas.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
