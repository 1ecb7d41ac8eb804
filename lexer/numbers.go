package lexer

import "strconv"

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// numberMatch describes a matched numeric literal before it is converted to
// its payload value.
type numberMatch struct {
	length  int
	isFloat bool
	isHex   bool
	badExp  bool // an exponent marker was seen with no following digit
}

// scanNumber implements §4.1 step 6: leading-dot floats, then the combined
// integer/float rule, then hexadecimal, keeping whichever rule matches the
// longest run (the only case where more than one rule can match the same
// input is "0" followed by a hex body, and the hex rule always wins there
// since it is strictly longer).
func scanNumber(rest []byte) (numberMatch, bool) {
	if len(rest) > 0 && rest[0] == '.' && len(rest) > 1 && isDigit(rest[1]) {
		i := 1
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
			j := i + 1
			if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
				j++
			}
			if j >= len(rest) || !isDigit(rest[j]) {
				return numberMatch{length: i, isFloat: true, badExp: true}, true
			}
			for j < len(rest) && isDigit(rest[j]) {
				j++
			}
			i = j
		}
		return numberMatch{length: i, isFloat: true}, true
	}

	var best numberMatch
	var haveMatch bool

	if len(rest) > 0 && isDigit(rest[0]) {
		i := 1
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		isFloat := false
		if i < len(rest) && rest[i] == '.' {
			i++
			for i < len(rest) && isDigit(rest[i]) {
				i++
			}
			isFloat = true
		}
		if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
			j := i + 1
			if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
				j++
			}
			if j >= len(rest) || !isDigit(rest[j]) {
				return numberMatch{length: i, isFloat: true, badExp: true}, true
			}
			for j < len(rest) && isDigit(rest[j]) {
				j++
			}
			i = j
			isFloat = true
		}
		if !isFloat && i < len(rest) && rest[i] == 'L' {
			i++
		}
		best = numberMatch{length: i, isFloat: isFloat}
		haveMatch = true
	}

	if len(rest) >= 3 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') && isHexDigit(rest[2]) {
		i := 3
		for i < len(rest) && isHexDigit(rest[i]) {
			i++
		}
		best = numberMatch{length: i, isHex: true}
		haveMatch = true
	}

	return best, haveMatch
}

// parseIntLiteral converts the matched literal text to its int64 payload.
// Hexadecimal and decimal overflow both wrap via uint64 truncation rather
// than saturating or erroring, per §9's note that overflow behavior is
// implementation-defined.
func parseIntLiteral(text string, hex bool) int64 {
	if hex {
		digits := text[2:]
		if len(digits) > 16 {
			// only the low 64 bits (the last 16 hex digits) survive wrapping
			digits = digits[len(digits)-16:]
		}
		u, _ := strconv.ParseUint(digits, 16, 64)
		return int64(u)
	}
	trimmed := text
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == 'L' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	u, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		// the literal does not fit in 64 bits: accumulate it digit by digit
		// in a uint64 so that it wraps modulo 2^64
		u = 0
		for i := 0; i < len(trimmed); i++ {
			u = u*10 + uint64(trimmed[i]-'0')
		}
	}
	return int64(u)
}
