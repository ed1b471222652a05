package main

import (
	_ "github.com/kirinyoku/tablebook/docs"
	"github.com/kirinyoku/tablebook/internal/cli"
)

// @title TableBook API
// @version 1.0
// @description Restaurant table reservations with conflict-free allocation.
// @host localhost:8080
// @BasePath /
func main() {
	cli.Execute()
}
