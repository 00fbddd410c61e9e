package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cryptodash/config"
	"cryptodash/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the provider cache connection",
	Long:  `Connect to Redis with the configured settings and run a set/get/del roundtrip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := db.ConnectRedis(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.CloseRedis()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		const key = "cryptodash:healthcheck"
		if err := db.RedisClient.Set(ctx, key, "ok", time.Minute).Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Redis SET failed: %v\n", err)
			os.Exit(1)
		}
		val, err := db.RedisClient.Get(ctx, key).Result()
		if err != nil || val != "ok" {
			fmt.Fprintf(os.Stderr, "Redis GET failed: %v\n", err)
			os.Exit(1)
		}
		db.RedisClient.Del(ctx, key)

		fmt.Println("Redis connection OK")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
