package main

import (
	"fmt"
	"os"

	"github.com/linusc17/fitness-planner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
