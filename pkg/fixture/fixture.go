// Package fixture provides the factories that produce test subjects on demand.
package fixture

import (
	"context"
	"strings"

	"github.com/Pallinder/go-randomdata"
	uuid "github.com/satori/go.uuid"
)

// Factory creates a fresh test subject.
// A Factory that persists its subject should do so before returning it.
type Factory[T any] interface {
	Create(ctx context.Context) (T, error)
}

type FactoryFunc[T any] func(ctx context.Context) (T, error)

func (fn FactoryFunc[T]) Create(ctx context.Context) (T, error) { return fn(ctx) }

// Value is a Factory that always returns the same value.
func Value[T any](v T) Factory[T] {
	return FactoryFunc[T](func(context.Context) (T, error) { return v, nil })
}

// Must is a Factory wrapper for constructors that can't fail.
func Must[T any](fn func(ctx context.Context) T) Factory[T] {
	return FactoryFunc[T](func(ctx context.Context) (T, error) { return fn(ctx), nil })
}

// Name returns a random human readable name.
func Name() string {
	return randomdata.SillyName()
}

// Username returns a random, lower case, user name.
func Username() string {
	return strings.ToLower(randomdata.SillyName()) + randomdata.StringNumber(2, "")
}

// Sentence returns a random sentence.
func Sentence() string {
	return randomdata.Paragraph()
}

// Number returns a random number between min and max.
func Number(min, max int) int {
	return randomdata.Number(min, max)
}

// UniqueName returns a name that is unique across test runs.
func UniqueName(prefix string) string {
	return prefix + "-" + uuid.NewV4().String()
}
