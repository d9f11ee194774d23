package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentscout-be/internal/config"
	"talentscout-be/pkg/events"
	pktNats "talentscout-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// audit_tail follows the audit fan-out on NATS and prints one line per event.
func main() {
	flagSet := pflag.NewFlagSet("audit_tail", pflag.ExitOnError)
	durable := flagSet.String("durable", "audit-tail", "JetStream durable consumer name")
	pattern := flagSet.String("events", "", "event pattern (default: <AUDIT_SUBJECT_PREFIX>.>)")
	_ = flagSet.Parse(os.Args[1:])

	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}
	if *pattern == "" {
		*pattern = cfg.Events.AuditSubjectPrefix + ".>"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	kind := color.New(color.FgCyan, color.Bold)
	err = sub.SubscribeAudit(ctx, *pattern, *durable, func(_ context.Context, e events.AuditRecorded) error {
		kind.Printf("%-15s", e.EventType)
		color.New(color.FgWhite).Printf(" %s  %s  %s\n",
			e.Timestamp.Format(time.RFC3339), e.CandidateId, e.Details)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	color.Green("Following %s (ctrl-c to stop)", *pattern)
	<-ctx.Done()
}
