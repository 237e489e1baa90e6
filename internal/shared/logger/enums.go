//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package logger

// Format selects the console log encoding
// ENUM(plain,json)
type Format string
