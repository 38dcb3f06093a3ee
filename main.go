package main

import (
	"github.com/rm-hull/tempo-api/cmd"

	_ "github.com/mattn/go-sqlite3"
)

// version will be set at build time
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
