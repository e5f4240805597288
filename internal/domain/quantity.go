package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MaxStock is the largest quantity the stock column can hold.
const MaxStock = math.MaxInt32

// ValidateQuantity accepts integers in 1..MaxStock.
func ValidateQuantity(q int) error {
	if q <= 0 || q > MaxStock {
		return &InvalidQuantityError{Value: strconv.Itoa(q)}
	}
	return nil
}

// ParseQuantity converts a raw JSON number into an int. Missing values,
// fractions and non-numeric input are rejected; sign checks are left to
// ValidateQuantity so workflows can order them after entity resolution.
func ParseQuantity(raw json.Number) (int, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, &InvalidQuantityError{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// 5.0 is still an integer.
		f, ferr := raw.Float64()
		if ferr != nil || math.Abs(f) > MaxStock || f != math.Trunc(f) {
			return 0, &InvalidQuantityError{Value: s}
		}
		n = int(f)
	}
	return n, nil
}
