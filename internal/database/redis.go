package database

import (
	"sync"

	"rentalhub/pkg/config"
	"rentalhub/pkg/counter"
)

var (
	viewCounterInstance *counter.RedisCounter
	viewCounterOnce     sync.Once
)

// GetViewCounter returns the shared Redis view counter.
func GetViewCounter() *counter.RedisCounter {
	viewCounterOnce.Do(func() {
		cfg := config.GetConfig()
		viewCounterInstance = counter.NewRedisCounter(&counter.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return viewCounterInstance
}

func CloseViewCounter() error {
	if viewCounterInstance != nil {
		return viewCounterInstance.Close()
	}
	return nil
}
