// Command bytekv-bench drives a simple single-connection throughput
// benchmark against a running bytekvd instance: n sequential SETs
// followed by n sequential GETs, timed separately.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	var n int
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "bytekv-bench",
		Short: "Benchmark SET/GET throughput against a bytekvd server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := fmt.Sprintf("%s:%d", host, port)

			setRate, setElapsed, err := benchSet(n, addr)
			if err != nil {
				return fmt.Errorf("bench set: %w", err)
			}
			getRate, getElapsed, err := benchGet(n, addr)
			if err != nil {
				return fmt.Errorf("bench get: %w", err)
			}

			fmt.Printf("SET: %d ops in %.2fs -> %.0f ops/s\n", n, setElapsed.Seconds(), setRate)
			fmt.Printf("GET: %d ops in %.2fs -> %.0f ops/s\n", n, getElapsed.Seconds(), getRate)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 10000, "number of operations per phase")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "server host")
	cmd.Flags().IntVar(&port, "port", 9000, "server port")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func benchSet(n int, addr string) (ratePerSec float64, elapsed time.Duration, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	payload := "value\n"

	start := time.Now()
	for i := 0; i < n; i++ {
		req := fmt.Sprintf("SET k%d 0 %d\n%s", i, len(payload)-1, payload)
		if _, err := conn.Write([]byte(req)); err != nil {
			return 0, 0, err
		}
		if _, err := reader.ReadString('\n'); err != nil {
			return 0, 0, err
		}
	}
	elapsed = time.Since(start)
	return float64(n) / elapsed.Seconds(), elapsed, nil
}

func benchGet(n int, addr string) (ratePerSec float64, elapsed time.Duration, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)

	start := time.Now()
	for i := 0; i < n; i++ {
		if _, err := conn.Write([]byte(fmt.Sprintf("GET k%d\n", i))); err != nil {
			return 0, 0, err
		}
		header, err := reader.ReadString('\n')
		if err != nil {
			return 0, 0, err
		}
		if header == "NOT_FOUND\n" {
			continue
		}
		var size int
		if _, err := fmt.Sscanf(header, "VALUE %d\n", &size); err == nil {
			if _, err := reader.Discard(size + 1); err != nil {
				return 0, 0, err
			}
		}
	}
	elapsed = time.Since(start)
	return float64(n) / elapsed.Seconds(), elapsed, nil
}
