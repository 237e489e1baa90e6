//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Channel identifies a notification delivery mechanism
// ENUM(push,desktop)
type Channel string
