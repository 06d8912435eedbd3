package config

import "time"

// Version is the current version of reflectix
const Version = "v1.0.0"

// Default Values
const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	DefaultAttackLevel = 1
	DefaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.100 Safari/537.36"
)

// TokenLength is the size of a discriminant token. 62^12 possible
// values makes an accidental collision with page content negligible.
const TokenLength = 12

// WitnessLength is the size of the random tag embedded in the benign
// alert() call used as an execution witness.
const WitnessLength = 6
