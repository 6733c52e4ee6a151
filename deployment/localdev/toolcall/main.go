// Command toolcall is a local development harness for poking a running
// platform-sim instance:
//
//	go run ./deployment/localdev/toolcall -list
//	go run ./deployment/localdev/toolcall -tool get_pod_logs -args '{"pod_name":"payment-service-9b2e1d-def56"}'
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	var (
		baseURL string
		tool    string
		args    string
		list    bool
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "platform-sim base URL")
	flag.StringVar(&tool, "tool", "", "tool name to invoke")
	flag.StringVar(&args, "args", "{}", "tool arguments as a JSON object")
	flag.BoolVar(&list, "list", false, "list available tools and exit")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	if list {
		dump(client.Get(baseURL + "/api/v1/tools"))
		return
	}
	if tool == "" {
		log.Fatal("either -list or -tool is required")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(args), &payload); err != nil {
		log.Fatalf("-args must be a JSON object: %v", err)
	}

	body, _ := json.Marshal(payload)
	dump(client.Post(baseURL+"/api/v1/tools/"+tool, "application/json", bytes.NewReader(body)))
}

func dump(resp *http.Response, err error) {
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		raw = pretty.Bytes()
	}
	fmt.Fprintf(os.Stdout, "%s\n%s\n", resp.Status, raw)
}
