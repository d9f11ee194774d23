package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"talentscout-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// ashaScript is the reference screening: every stage answered once, then five
// technical answers.
var ashaScript = []string{
	"Asha Rao",
	"asha@x.com",
	"+91 98765 43210",
	"4",
	"Backend Engineer",
	"Pune",
	"Python, Django, PostgreSQL",
	"I would use select_related for foreign keys and prefetch_related for reverse relations.",
	"Indexes on the filter columns, then EXPLAIN ANALYZE to confirm the plan.",
	"Celery workers with a Redis broker and idempotent tasks.",
	"Split settings per environment and read secrets from the environment.",
	"Transactions with select_for_update around the balance row.",
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return json.Unmarshal(raw, out)
}

func main() {
	flagSet := pflag.NewFlagSet("simulation", pflag.ExitOnError)
	baseURL := flagSet.String("base-url", "http://localhost:3000/api/screening/v1", "screening API base URL")
	scripted := flagSet.Bool("script", false, "replay the Asha Rao reference screening instead of reading stdin")
	delay := flagSet.Duration("delay", 300*time.Millisecond, "pause between scripted messages")
	_ = flagSet.Parse(os.Args[1:])

	c := &client{baseURL: strings.TrimRight(*baseURL, "/"), http: &http.Client{Timeout: 2 * time.Minute}}
	bot := color.New(color.FgCyan)
	you := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	color.New(color.Bold).Println("=== TalentScout screening simulation ===")

	var started envelope[dto.StartSessionResponse]
	if err := c.post("/sessions", dto.StartSessionRequest{Consent: true}, &started); err != nil {
		color.Red("Failed to start session: %v", err)
		os.Exit(1)
	}
	id := started.Data.CandidateId
	warn.Printf("candidate id: %s\n\n", id)
	for _, m := range started.Data.Messages {
		bot.Printf("BOT: %s\n", m)
	}

	next := stdinSource()
	if *scripted {
		next = scriptSource(ashaScript, *delay)
	}

	for {
		text, ok := next()
		if !ok {
			return
		}
		you.Printf("YOU: %s\n", text)

		var res envelope[dto.SendMessageResponse]
		if err := c.post("/sessions/"+id+"/messages", dto.SendMessageRequest{Message: text}, &res); err != nil {
			color.Red("error: %v", err)
			continue
		}
		for _, m := range res.Data.Messages {
			bot.Printf("BOT: %s\n", m)
		}
		if res.Data.Warning != "" {
			warn.Printf("(%s)\n", res.Data.Warning)
		}
		if res.Data.Ended {
			warn.Printf("\nsession ended at %s\n", res.Data.Stage)
			return
		}
	}
}

func stdinSource() func() (string, bool) {
	scanner := bufio.NewScanner(os.Stdin)
	return func() (string, bool) {
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return "", false
			}
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
	}
}

func scriptSource(lines []string, delay time.Duration) func() (string, bool) {
	i := 0
	return func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		if i > 0 {
			time.Sleep(delay)
		}
		i++
		return lines[i-1], true
	}
}
