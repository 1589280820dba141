package rng

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var ErrEmptyCaseNumber = errors.New("empty case number")

// maxSeedDigits bounds the decimal digit string derived from a case number.
const maxSeedDigits = 18

// ValidCaseNumber reports whether a case number can seed a session.
// Every non-empty identifier is accepted.
func ValidCaseNumber(caseNumber string) bool {
	return caseNumber != ""
}

// CaseSeed maps a case number to its seed: the decimal code points of every
// character are concatenated, and a digit string longer than 18 characters
// keeps only its leading len-18 digits.
func CaseSeed(caseNumber string) (*big.Int, error) {
	if !ValidCaseNumber(caseNumber) {
		return nil, ErrEmptyCaseNumber
	}
	var b strings.Builder
	for _, c := range caseNumber {
		b.WriteString(strconv.Itoa(int(c)))
	}
	digits := b.String()
	if len(digits) > maxSeedDigits {
		digits = digits[:len(digits)-maxSeedDigits]
	}
	seed, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("case number %q: bad seed digits %q", caseNumber, digits)
	}
	return seed, nil
}

// NewFromCase seeds a generator from a case number.
func NewFromCase(caseNumber string) (*Rand, error) {
	seed, err := CaseSeed(caseNumber)
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}
