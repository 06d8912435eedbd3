package injection

import (
	"math/rand"

	"github.com/kvasir-sec/reflectix/pkg/config"
)

const tokenChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomToken returns a random mixed-case alphanumeric string of n
// characters. Tokens are scoped to a single probe and never stored.
func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenChars[rand.Intn(len(tokenChars))]
	}
	return string(b)
}

// tokenPair returns two distinct discriminant tokens.
func tokenPair() (string, string) {
	t1 := randomToken(config.TokenLength)
	t2 := randomToken(config.TokenLength)
	for t2 == t1 {
		t2 = randomToken(config.TokenLength)
	}
	return t1, t2
}

// newWitness returns the random tag identifying one parameter's
// execution witness, e.g. the w9xK2f in alert('w9xK2f').
func newWitness() string {
	return "w" + randomToken(config.WitnessLength)
}
