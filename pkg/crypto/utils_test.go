package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	plain := []byte(`{"description":"Salary"}`)

	sealed, err := Seal(plain, "correct horse battery staple")
	require.Nil(t, err)
	assert.NotContains(t, sealed, "Salary")
	assert.Equal(t, 3, len(strings.Split(sealed, ".")))

	result, err := Open(sealed, "correct horse battery staple")
	require.Nil(t, err)
	assert.Equal(t, plain, result)
}

func TestSealUsesFreshSalt(t *testing.T) {
	a, err := Seal([]byte("x"), "pass")
	require.Nil(t, err)
	b, err := Seal([]byte("x"), "pass")
	require.Nil(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpenWrongKey(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "right")
	require.Nil(t, err)

	_, err = Open(sealed, "wrong")
	assert.NotNil(t, err)
}

func TestOpenTampered(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "pass")
	require.Nil(t, err)

	bits := strings.Split(sealed, ".")
	// swap the first cyphertext character for a different valid one
	c := "A"
	if bits[1][0] == 'A' {
		c = "B"
	}
	bits[1] = c + bits[1][1:]

	_, err = Open(strings.Join(bits, "."), "pass")
	assert.NotNil(t, err)
}

func TestOpenMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "a.b", "!!.!!.!!"} {
		_, err := Open(in, "pass")
		assert.NotNil(t, err, in)
	}
}

func TestEmptyPassphrase(t *testing.T) {
	_, err := Seal([]byte("x"), "")
	assert.NotNil(t, err)
}
