package main

import (
	"github.com/armadaproject/streambench/cmd/streambench/cmd"
	"github.com/armadaproject/streambench/internal/common/logging"
)

func main() {
	logging.ConfigureCliLogging()
	cmd.Execute()
}
