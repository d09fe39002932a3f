package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	client := &client{
		baseURL:    resolveAddr(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	switch os.Args[1] {
	case "plugins":
		pluginsCmd(client, os.Args[2:])
	case "status":
		statusCmd(client)
	case "start", "stop", "pause", "locate":
		commandCmd(client, os.Args[1])
	case "dock":
		commandCmd(client, "return_to_base")
	case "fan-speed":
		fanSpeedCmd(client, os.Args[2:])
	case "send":
		sendCmd(client, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("dreamebridge-cli <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  plugins [id]          List plugins or describe one")
	fmt.Println("  status                Show the vacuum snapshot")
	fmt.Println("  start                 Start cleaning")
	fmt.Println("  stop                  Stop cleaning")
	fmt.Println("  pause                 Pause (stop sweeping)")
	fmt.Println("  dock                  Return to the charging dock")
	fmt.Println("  locate                Play the locate sound")
	fmt.Println("  fan-speed <preset>    Set fan speed (Silent|Standard|Medium|Turbo)")
	fmt.Println("  send <method> [json]  Send a raw command with optional JSON params")
	fmt.Println("")
	fmt.Println("The server address comes from DREAMEBRIDGE_ADDR (default http://127.0.0.1:8080).")
}

func resolveAddr() string {
	if addr := os.Getenv("DREAMEBRIDGE_ADDR"); addr != "" {
		return strings.TrimRight(addr, "/")
	}
	return "http://127.0.0.1:8080"
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

func (c *client) get(path string) ([]byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return readResponse(resp)
}

func (c *client) post(path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return readResponse(resp)
}

func readResponse(resp *http.Response) ([]byte, error) {
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}

func pluginsCmd(c *client, args []string) {
	path := "/api/plugins"
	if len(args) > 0 {
		path += "/" + args[0]
	}
	payload, err := c.get(path)
	if err != nil {
		fatal("plugins", err)
	}
	printJSON(payload)
}

func statusCmd(c *client) {
	payload, err := c.get("/api/dreame/status")
	if err != nil {
		fatal("status", err)
	}
	printJSON(payload)
}

func commandCmd(c *client, command string) {
	if _, err := c.post("/api/dreame/command", map[string]string{"command": command}); err != nil {
		fatal(command, err)
	}
	fmt.Println("ok")
}

func fanSpeedCmd(c *client, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	body := map[string]string{"command": "set_fan_speed", "fan_speed": args[0]}
	if _, err := c.post("/api/dreame/command", body); err != nil {
		fatal("fan-speed", err)
	}
	fmt.Println("ok")
}

func sendCmd(c *client, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	body := map[string]any{"command": "send_command", "method": args[0]}
	if len(args) > 1 {
		var params []any
		if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
			fatal("send", fmt.Errorf("invalid params json: %w", err))
		}
		body["params"] = params
	}
	if _, err := c.post("/api/dreame/command", body); err != nil {
		fatal("send", err)
	}
	fmt.Println("ok")
}

func printJSON(payload []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		fmt.Println(strings.TrimSpace(string(payload)))
		return
	}
	fmt.Println(buf.String())
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}
