package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTaxID(t *testing.T) {
	valid := []string{
		"52601815966",
		"08301661303",
		"186.091.390-05",
		"996 030 824 90",
	}
	for _, id := range valid {
		assert.True(t, ValidTaxID(id), "expected %q to validate", id)
	}

	invalid := []string{
		"",
		"1234567890",     // too short
		"123456789012",   // too long
		"11111111111",    // repeated digits
		"00000000000",    // repeated digits
		"52601815967",    // wrong last check digit
		"52601815956",    // wrong first check digit
		"5260181596a",    // non-digit tail strips to short
		"not-a-tax-id",
	}
	for _, id := range invalid {
		assert.False(t, ValidTaxID(id), "expected %q to fail", id)
	}
}

func TestValidTaxIDFlippedDigit(t *testing.T) {
	const id = "52601815966"
	for i := 0; i < len(id); i++ {
		for r := byte('0'); r <= '9'; r++ {
			if r == id[i] {
				continue
			}
			flipped := id[:i] + string(r) + id[i+1:]
			assert.False(t, ValidTaxID(flipped), "flip at %d to %c should invalidate", i, r)
		}
	}
}

func TestValidCardNumber(t *testing.T) {
	assert.True(t, ValidCardNumber("4111111111111111"))
	assert.True(t, ValidCardNumber("4111 1111 1111 1111"))
	assert.True(t, ValidCardNumber("5500-0000-0000-0004"))

	assert.False(t, ValidCardNumber(""))
	assert.False(t, ValidCardNumber("4111111111111112"))
	assert.False(t, ValidCardNumber("4111x111111111111"))
}

func TestValidCardNumberFlippedDigit(t *testing.T) {
	const card = "4111111111111111"
	for i := 0; i < len(card); i++ {
		for r := byte('0'); r <= '9'; r++ {
			if r == card[i] {
				continue
			}
			flipped := card[:i] + string(r) + card[i+1:]
			assert.False(t, ValidCardNumber(flipped), "flip at %d to %c should invalidate", i, r)
		}
	}
}
