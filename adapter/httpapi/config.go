package httpapi

import (
	"context"
	"fmt"
	"time"

	"go.llib.dev/frameless/pkg/env"
	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/restassured/adapter/boltdb"
	"go.llib.dev/restassured/adapter/memory"
	"go.llib.dev/restassured/adapter/sqlite"
	"go.llib.dev/restassured/domain/stuff"
)

// ServerConfig is the environment configuration of the API server.
type ServerConfig struct {
	Addr           string        `env:"STUFFAPI_ADDR" default:":8080"`
	Storage        string        `env:"STUFFAPI_STORAGE" enum:"memory;bolt;sqlite;" default:"memory"`
	BoltPath       string        `env:"STUFFAPI_BOLT_PATH" default:"stuffapi.bolt"`
	SQLiteDSN      string        `env:"STUFFAPI_SQLITE_DSN" default:"stuffapi.sqlite"`
	RequireAuth    bool          `env:"STUFFAPI_REQUIRE_AUTH" default:"false"`
	PageSize       int           `env:"STUFFAPI_PAGE_SIZE" default:"10"`
	RequestTimeout time.Duration `env:"STUFFAPI_REQUEST_TIMEOUT" default:"30s"`
}

func LoadServerConfig() (ServerConfig, error) {
	var c ServerConfig
	if err := env.Load(&c); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}

// OpenStorage opens the storage backend selected by the configuration.
// The returned close function releases the backend.
func OpenStorage(ctx context.Context, c ServerConfig) (stuff.Storage, func() error, error) {
	switch c.Storage {
	case "", "memory":
		return MemoryStorage(), func() error { return nil }, nil
	case "bolt":
		db, err := boltdb.Open(c.BoltPath)
		if err != nil {
			return stuff.Storage{}, nil, err
		}
		return stuff.Storage{
			Stuff:            boltdb.NewRepository[stuff.Stuff](db, "stuff", stuffIDA),
			RelatedStuff:     boltdb.NewRepository[stuff.RelatedStuff](db, "related_stuff", relatedStuffIDA),
			ManyRelatedStuff: boltdb.NewRepository[stuff.ManyRelatedStuff](db, "many_related_stuff", manyRelatedStuffIDA),
		}, db.Close, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, c.SQLiteDSN)
		if err != nil {
			return stuff.Storage{}, nil, err
		}
		return db.Storage(), db.Close, nil
	default:
		return stuff.Storage{}, nil, ErrUnknownStorage.F("%s", c.Storage)
	}
}

const ErrUnknownStorage errorkit.Error = "unknown storage"

func MemoryStorage() stuff.Storage {
	return stuff.Storage{
		Stuff:            memory.NewRepository[stuff.Stuff, int64](stuffIDA),
		RelatedStuff:     memory.NewRepository[stuff.RelatedStuff, int64](relatedStuffIDA),
		ManyRelatedStuff: memory.NewRepository[stuff.ManyRelatedStuff, int64](manyRelatedStuffIDA),
	}
}

func (c ServerConfig) String() string {
	return fmt.Sprintf("addr=%s storage=%s auth=%t", c.Addr, c.Storage, c.RequireAuth)
}
