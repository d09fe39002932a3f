// Command dreame-check verifies that a 1C is reachable with a given token
// before it goes into the bridge config. It requests one status update and
// prints the raw state.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	miio "github.com/vkorn/go-miio"
)

func main() {
	host := flag.String("host", "", "device IP or hostname")
	tokenFile := flag.String("token-file", "", "file holding the 32-hex-char device token")
	timeout := flag.Duration("timeout", 15*time.Second, "how long to wait for a status update")
	flag.Parse()

	if *host == "" || *tokenFile == "" {
		fmt.Fprintln(os.Stderr, "usage: dreame-check --host <ip> --token-file <path>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*tokenFile)
	if err != nil {
		fatal("read token file: %v", err)
	}
	token := string(raw)
	for len(token) > 0 && (token[len(token)-1] == '\n' || token[len(token)-1] == '\r') {
		token = token[:len(token)-1]
	}

	vac, err := miio.NewVacuum(*host, token)
	if err != nil {
		fatal("handshake with %s failed: %v", *host, err)
	}
	defer vac.Stop()

	if !vac.UpdateStatus() {
		fatal("status request to %s failed", *host)
	}

	deadline := time.After(*timeout)
	for {
		select {
		case msg := <-vac.UpdateChan:
			state, ok := msg.State.(*miio.VacuumState)
			if !ok || state == nil {
				continue
			}
			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				fatal("encode state: %v", err)
			}
			fmt.Println(string(out))
			return
		case <-deadline:
			fatal("no status update from %s within %s", *host, *timeout)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
