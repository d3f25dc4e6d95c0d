// Command feedbackctl sends feedback text to a running server and prints the verdict.
//
//	feedbackctl -addr http://localhost:8055 "I love this"
//	echo "great product" | feedbackctl -debug
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"feedback/pkg/client"
)

func main() {
	var (
		addr    string
		debug   bool
		timeout time.Duration
	)

	flag.StringVar(&addr, "addr", "http://localhost:8055", "Feedback service base URL.")
	flag.BoolVar(&debug, "debug", false, "Request tokens and per-token sentiment details.")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout.")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("[feedbackctl] failed to read stdin: %v", err)
		}
		text = string(b)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := client.New(addr).Check(ctx, text, debug)
	if err != nil {
		log.Fatalf("[feedbackctl] %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatalf("[feedbackctl] failed to print result: %v", err)
	}
}
