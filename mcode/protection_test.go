package mcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ProtectionString(t *testing.T) {
	require.Equal(t, "---", Protection(0).String())
	require.Equal(t, "r--", ProtRead.String())
	require.Equal(t, "rw-", ProtRW.String())
	require.Equal(t, "r-x", ProtRX.String())
	require.Equal(t, "rwx", ProtRWX.String())
	require.Equal(t, "-w-", ProtWrite.String())
}

func Test_ProtectionValid(t *testing.T) {
	require.True(t, Protection(0).valid())
	require.True(t, ProtRWX.valid())
	require.False(t, Protection(0x08).valid())
	require.False(t, (ProtRX | Protection(0x80)).valid())
}
