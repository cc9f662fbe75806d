package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "cryptoscout"}

	root.AddCommand(researchCMD(), serveCMD())
	_ = root.Execute()
}
