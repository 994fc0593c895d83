package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltLockTimeout = time.Second

// OpenBolt открывает файл bbolt, создавая каталог при необходимости.
// Если файл держит другой процесс, открытие завершается ошибкой через секунду.
func OpenBolt(path string, options *bolt.Options) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("bbolt: не удалось создать каталог для %s: %w", path, err)
	}

	opts := bolt.Options{Timeout: boltLockTimeout}
	if options != nil {
		opts = *options
		if opts.Timeout == 0 {
			opts.Timeout = boltLockTimeout
		}
	}

	conn, err := bolt.Open(path, 0o600, &opts)
	if err != nil {
		return nil, fmt.Errorf("bbolt: не удалось открыть %s: %w", path, err)
	}
	return conn, nil
}
