// Command bytekv-cli is an ad-hoc client for talking to a running
// bytekvd instance: one subcommand per wire command, each opening a
// fresh connection, sending a single command, and printing the raw
// response.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	addr    string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bytekv-cli",
		Short: "Send a single command to a bytekvd server",
	}
	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:9000", "server address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "connection timeout")

	root.AddCommand(newSetCmd(), newGetCmd(), newDelCmd(), newStatsCmd())
	return root
}

func newSetCmd() *cobra.Command {
	var ttlMS int64
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Args:  cobra.ExactArgs(2),
		Short: "Set a key with an optional TTL in milliseconds",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			request := fmt.Sprintf("SET %s %d %d\n%s\n", key, ttlMS, len(value), value)
			return sendAndPrint(request)
		},
	}
	cmd.Flags().Int64Var(&ttlMS, "ttl-ms", 0, "time to live in milliseconds (0 = no expiry)")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Get a key's value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(fmt.Sprintf("GET %s\n", args[0]))
		},
	}
}

func newDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(fmt.Sprintf("DEL %s\n", args[0]))
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Fetch server stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint("STATS\n")
		},
	}
}

// sendAndPrint opens a fresh connection, writes request, half-closes the
// write side, and prints whatever the server sends back until it closes
// the connection or the read deadline passes. One connection per command
// mirrors the reference client's own send_cmd helper.
func sendAndPrint(request string) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(request)); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.CloseWrite()
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	out, err := io.ReadAll(conn)
	fmt.Print(string(out))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}
