package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeWallet(t *testing.T) {
	require.Equal(t, "0xabcdef", NormalizeWallet("  0xABCdef "))
	require.Equal(t, "", NormalizeWallet("   "))
}

func TestMaskWallet(t *testing.T) {
	require.Equal(t, "0x1234...cdef", MaskWallet("0x1234567890abcdef1234567890abcdef12abcdef"))
	require.Equal(t, "0xshort", MaskWallet("0xshort"))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{1_500_000, "1.5"},
		{75, "0.000075"},
		{0, "0"},
		{-5, "-0.000005"},
		{1_000_000, "1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatAmount(tt.amount), "FormatAmount(%d)", tt.amount)
	}
}
