// Package main is the entry point of the digger CLI.
package main

import (
	"github.com/huangsam/digger/cmd"
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	cmd.SetCacheManager(iocache.Manager)

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
