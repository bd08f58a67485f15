package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseIntegerLiteral(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    IntegerLiteral
		expectErr bool
	}{
		{
			name:   "small unsuffixed is 32-bit",
			input:  "7",
			expect: IntegerLiteral{U32: 7},
		},
		{
			name:   "max uint32 stays 32-bit",
			input:  "4294967295",
			expect: IntegerLiteral{U32: 4294967295},
		},
		{
			name:   "uint32 overflow becomes 64-bit",
			input:  "4294967296",
			expect: IntegerLiteral{Is64: true, U64: 4294967296},
		},
		{
			name:   "L suffix forces 64-bit regardless of magnitude",
			input:  "42L",
			expect: IntegerLiteral{Is64: true, U64: 42},
		},
		{
			name:   "lowercase suffix",
			input:  "42l",
			expect: IntegerLiteral{Is64: true, U64: 42},
		},
		{
			name:   "max uint64",
			input:  "18446744073709551615",
			expect: IntegerLiteral{Is64: true, U64: 18446744073709551615},
		},
		{
			name:      "uint64 overflow is an error",
			input:     "18446744073709551616",
			expectErr: true,
		},
		{
			name:      "suffixed uint64 overflow is an error",
			input:     "18446744073709551616L",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseIntegerLiteral(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ParseBytesLiteral(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []byte
		expectErr bool
	}{
		{
			name:   "even digit count",
			input:  "DEADBEEF#",
			expect: []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			name:   "lowercase digits",
			input:  "0aff#",
			expect: []byte{0x0a, 0xff},
		},
		{
			name:   "empty payload",
			input:  "#",
			expect: []byte{},
		},
		{
			name:      "odd digit count is an error",
			input:     "DEADBEE#",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseBytesLiteral(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_InterpretEscapes(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "no escapes",
			input:  "plain text",
			expect: "plain text",
		},
		{
			name:   "newline and tab",
			input:  `line\n\tnext`,
			expect: "line\n\tnext",
		},
		{
			name:   "quotes and backslash",
			input:  `say \"hi\" \\ \'bye\'`,
			expect: `say "hi" \ 'bye'`,
		},
		{
			name:   "unknown escape is dropped",
			input:  `a\qb`,
			expect: "ab",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := InterpretEscapes(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}
