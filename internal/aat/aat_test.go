// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aat

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleLog is two concatenated simulator runs; the second holds the minimum.
const sampleLog = `Cache Settings
--------------
L1 (C,B,S): (10,5,2). Replacement policy: LRU. Prefetcher disabled.
L2 (C,B,S): (15,5,3). Replacement policy: LRU. +1 prefetcher. Prefetch insertion policy: MIP.

Cache Statistics
----------------
Reads: 120
Writes: 80

L1 accesses: 200
L1 hits: 150
L1 misses: 50
L1 hit ratio: 0.750
L1 miss ratio: 0.250
L1 average access time (AAT): 5.200

L2 average access time (AAT): 9.000
Cache Settings
--------------
L1 (C,B,S): (12,5,3). Replacement policy: LFU. Prefetcher disabled.
L2 disabled

Cache Statistics
----------------
L1 average access time (AAT): 3.100
L2 average access time (AAT): 0.500
`

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFound bool
		want      float64
		wantMatch int
	}{
		{
			name:  "empty input is absent",
			input: "",
		},
		{
			name:  "no labelled lines is absent",
			input: "Reads: 10\nWrites: 4\n",
		},
		{
			name:      "smallest of three",
			input:     "L1 average access time (AAT): 5.2\nL1 average access time (AAT): 3.1\nL1 average access time (AAT): 7.9\n",
			wantFound: true,
			want:      3.1,
			wantMatch: 3,
		},
		{
			name:      "single match becomes the minimum",
			input:     "L1 average access time (AAT): 4.0\n",
			wantFound: true,
			want:      4.0,
			wantMatch: 1,
		},
		{
			name: "non-matching lines are ignored",
			input: strings.Join([]string{
				"L2 average access time: 1.0",
				"L1 average access time (AAT): 6.5",
				"l1 average access time (AAT): 0.1",
				" L1 average access time (AAT): 0.2",
				"L2 average access time (AAT): 0.3",
				"L1 average access time (AAT): 6.0",
			}, "\n"),
			wantFound: true,
			want:      6.0,
			wantMatch: 2,
		},
		{
			name:      "value before a second colon",
			input:     "L1 average access time (AAT): 2.5: ns\n",
			wantFound: true,
			want:      2.5,
			wantMatch: 1,
		},
		{
			name:      "crlf and bare cr line endings",
			input:     "L1 average access time (AAT): 8\r\nL1 average access time (AAT): 7.5\rL1 average access time (AAT): 9\r",
			wantFound: true,
			want:      7.5,
			wantMatch: 3,
		},
		{
			name:      "no trailing newline",
			input:     "L1 average access time (AAT):   1.25   ",
			wantFound: true,
			want:      1.25,
			wantMatch: 1,
		},
		{
			name:      "underscores between digits",
			input:     "L1 average access time (AAT): 1_000.5\nL1 average access time (AAT): 2_0e1_0\n",
			wantFound: true,
			want:      1000.5,
			wantMatch: 2,
		},
		{
			name:      "negative and exponent literals",
			input:     "L1 average access time (AAT): 1e-3\nL1 average access time (AAT): -2\n",
			wantFound: true,
			want:      -2,
			wantMatch: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, got.Found)
			assert.Equal(t, tt.wantMatch, got.Matches)
			if tt.wantFound {
				assert.Equal(t, tt.want, got.Value)
			}
		})
	}
}

func TestScan_ParseError(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLine  int
		wantValue string
	}{
		{
			name:      "not a number",
			input:     "L1 average access time (AAT): 2.0\nL1 average access time (AAT): N/A\nL1 average access time (AAT): 1.0\n",
			wantLine:  2,
			wantValue: "N/A",
		},
		{
			name:      "empty value",
			input:     "L1 average access time (AAT):\n",
			wantLine:  1,
			wantValue: "",
		},
		{
			name:      "hex literal",
			input:     "L1 average access time (AAT): 0x1p3\n",
			wantLine:  1,
			wantValue: "0x1p3",
		},
		{
			name:      "signed upper-case hex literal",
			input:     "L1 average access time (AAT): -0X1P-2\n",
			wantLine:  1,
			wantValue: "-0X1P-2",
		},
		{
			name:      "doubled underscore",
			input:     "L1 average access time (AAT): 1__0\n",
			wantLine:  1,
			wantValue: "1__0",
		},
		{
			name:      "underscore before decimal point",
			input:     "L1 average access time (AAT): 1_.5\n",
			wantLine:  1,
			wantValue: "1_.5",
		},
		{
			name:      "trailing underscore",
			input:     "L1 average access time (AAT): 10_\n",
			wantLine:  1,
			wantValue: "10_",
		},
		{
			name:      "trailing unit",
			input:     "Reads: 1\nL1 average access time (AAT): 3.2 ns\n",
			wantLine:  2,
			wantValue: "3.2 ns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.False(t, got.Found, "a failed scan produces no minimum")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Equal(t, tt.wantValue, pe.Value)
		})
	}
}

func TestScan_Overflow(t *testing.T) {
	got, err := Scan(strings.NewReader("L1 average access time (AAT): 1e400\nL1 average access time (AAT): -1e400\n"))
	require.NoError(t, err)
	require.True(t, got.Found)
	assert.True(t, math.IsInf(got.Value, -1))
}

func TestNormalizeLiteral(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "3.1", want: "3.1"},
		{in: "1_000", want: "1000"},
		{in: "-1_0.2_5", want: "-10.25"},
		{in: "1e1_0", want: "1e10"},
		{in: "nan", want: "nan"},
		{in: "0x10", wantErr: true},
		{in: "+0x1p0", wantErr: true},
		{in: "_1", wantErr: true},
		{in: "1_e5", wantErr: true},
		{in: "+-1", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeLiteral(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			assert.ErrorIs(t, err, strconv.ErrSyntax)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestScan_Provenance(t *testing.T) {
	got, err := Scan(strings.NewReader(sampleLog))
	require.NoError(t, err)

	require.True(t, got.Found)
	assert.Equal(t, 3.1, got.Value)
	assert.Equal(t, 2, got.Run)
	assert.Equal(t, 26, got.Line)
	assert.Equal(t, 2, got.Matches)
	assert.Equal(t, []string{
		"L1 (C,B,S): (12,5,3). Replacement policy: LFU. Prefetcher disabled.",
		"L2 disabled",
	}, got.Settings)
}

func TestScan_TiesKeepFirst(t *testing.T) {
	input := "Cache Settings\nL1 (C,B,S): (10,5,2).\nL1 average access time (AAT): 2.0\n" +
		"Cache Settings\nL1 (C,B,S): (11,5,2).\nL1 average access time (AAT): 2.0\n"

	got, err := Scan(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Run)
	assert.Equal(t, 3, got.Line)
}

func TestScan_LongLine(t *testing.T) {
	long := strings.Repeat("x", 3*initialBufSize)
	input := long + "\nL1 average access time (AAT): 0.75\n"

	got, err := Scan(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0.75, got.Value)
	assert.Equal(t, 2, got.Lines)
}

func TestFindMinimum(t *testing.T) {
	path := writeLog(t, sampleLog)

	first, err := FindMinimum(path)
	require.NoError(t, err)
	assert.Equal(t, 3.1, first.Value)

	second, err := FindMinimum(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated scans of an unchanged file must agree")
}

func TestFindMinimum_EmptyFile(t *testing.T) {
	got, err := FindMinimum(writeLog(t, ""))
	require.NoError(t, err)
	assert.False(t, got.Found)
	assert.Equal(t, 0, got.Lines)
}

func TestFindMinimum_MissingFile(t *testing.T) {
	_, err := FindMinimum(filepath.Join(t.TempDir(), "does-not-exist.log"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, errors.Is(err, ErrParse))
}

func TestFindMinimum_Directory(t *testing.T) {
	_, err := FindMinimum(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestScanUniversalLines(t *testing.T) {
	tests := []struct {
		data    string
		atEOF   bool
		advance int
		token   string
	}{
		{data: "abc\ndef", advance: 4, token: "abc"},
		{data: "abc\r\ndef", advance: 5, token: "abc"},
		{data: "abc\rdef", advance: 4, token: "abc"},
		{data: "abc\r", advance: 0, token: ""},
		{data: "abc\r", atEOF: true, advance: 4, token: "abc"},
		{data: "abc", advance: 0, token: ""},
		{data: "abc", atEOF: true, advance: 3, token: "abc"},
	}

	for _, tt := range tests {
		advance, token, err := scanUniversalLines([]byte(tt.data), tt.atEOF)
		require.NoError(t, err)
		assert.Equal(t, tt.advance, advance, "advance for %q", tt.data)
		assert.Equal(t, tt.token, string(token), "token for %q", tt.data)
	}
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultLogPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
