package security

// taxIDLength is the digit count of a tax id after stripping formatting.
const taxIDLength = 11

// ValidTaxID checks a tax id's two mod-11 check digits. Formatting
// characters are stripped first; wrong length and all-repeated-digit
// sequences are rejected outright.
func ValidTaxID(input string) bool {
	digits := make([]int, 0, taxIDLength)
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != taxIDLength {
		return false
	}

	allSame := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits, 9) == digits[9] && checkDigit(digits, 10) == digits[10]
}

// checkDigit computes the mod-11 check digit over digits[:n] with
// weights cycling 2..9 applied right to left.
func checkDigit(digits []int, n int) int {
	sum := 0
	weight := 2
	for i := n - 1; i >= 0; i-- {
		sum += digits[i] * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

// ValidCardNumber runs the Luhn check over a card number, ignoring
// spaces and dashes.
func ValidCardNumber(input string) bool {
	digits := make([]int, 0, 19)
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == ' ' || r == '-':
			// formatting
		default:
			return false
		}
	}
	if len(digits) == 0 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
