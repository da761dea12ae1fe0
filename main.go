// Command panel analyzes class attendance exports.
package main

import (
	"github.com/seamosgenios/panel/cmd"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/persist"
)

func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	persist.CloseStores()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
