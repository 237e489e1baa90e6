//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Phase is the lifecycle position of the monitor
// ENUM(uninitialized,running,stopped)
type Phase string
