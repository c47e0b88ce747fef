package config_test

import (
	"fmt"

	"github.com/wonny/investor/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Store driver: %s\n", cfg.Database.Driver)
	fmt.Printf("Bootstrap data: %s\n", cfg.DataDir)
	fmt.Printf("Default top-N: %d\n", cfg.Ranking.DefaultLimit)
}
