package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("shutting down")
	os.Exit(1) // want "direct os.Exit call in main.main"
}

func helper() {
	os.Exit(2) // not main.main, no diagnostic expected
}
