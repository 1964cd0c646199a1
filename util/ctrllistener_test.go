package util

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtrlListener(t *testing.T) {
	dir := t.TempDir()
	cl, err := GetCtrlListener(dir, "test")
	require.NoError(t, err)

	pings := 0
	cl.AddCallback("ping", func(string) error {
		pings++
		return nil
	})
	cl.Start()

	again, err := GetCtrlListener(dir, "test")
	require.NoError(t, err)
	assert.Same(t, cl, again)

	address := filepath.Join(dir, fmt.Sprintf("test.%d.sock", os.Getpid()))
	conn, err := net.Dial("unix", address)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)

	_, err = conn.Write([]byte("ping\n"))
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ok\n", line)
	assert.Equal(t, 1, pings)

	_, err = conn.Write([]byte("bogus\n"))
	require.NoError(t, err)
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "syntax error?\n", line)
}
