// Package output writes batch results to pluggable destinations: the
// console, newline-delimited JSON files, Postgres, Kafka, or Parquet files
// (local or S3).
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lucsky/cuid"

	"burritowatch/internal/batch"
	"burritowatch/internal/chipotle"
	"burritowatch/internal/models"
)

// TopicMenuSummaries is the topic every batch result message is written to.
const TopicMenuSummaries = "menu_summaries"

// Destination receives serialized messages for a topic. Writers are not
// required to be safe for concurrent use; the batch emits sequentially.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// Message is the wire shape of one batch entry. Failed locations carry the
// error string instead of a menu.
type Message struct {
	EventID   string            `json:"event_id"`
	RunID     string            `json:"run_id"`
	Timestamp int64             `json:"timestamp"`
	Location  chipotle.Location `json:"location"`
	Menu      *chipotle.Summary `json:"menu,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// NewMessage stamps a batch entry with ids and the current time.
func NewMessage(runID string, entry batch.Entry) Message {
	msg := Message{
		EventID:   cuid.New(),
		RunID:     runID,
		Timestamp: time.Now().Unix(),
		Location:  entry.Location,
		Menu:      entry.Menu,
	}
	if entry.Err != nil {
		msg.Error = entry.Err.Error()
	}
	return msg
}

// NewRunID returns a fresh id shared by every message of one batch run.
func NewRunID() string { return cuid.New() }

// EmitEntries writes one message per batch entry to the destination.
func EmitEntries(dest Destination, runID string, entries []batch.Entry) error {
	for _, entry := range entries {
		serialized, err := json.Marshal(NewMessage(runID, entry))
		if err != nil {
			return fmt.Errorf("failed to serialize batch entry: %w", err)
		}
		if err := dest.WriteMessage(TopicMenuSummaries, serialized); err != nil {
			return err
		}
	}
	return nil
}

// ForConfig builds the destination the config selects.
func ForConfig(cfg *models.Config) (Destination, error) {
	switch cfg.Output.Type {
	case "", "console":
		return &ConsoleOutput{}, nil
	case "json":
		return NewJSONOutput(cfg.Output.Path), nil
	case "postgres":
		return NewPostgresOutput(&cfg.Database)
	case "kafka":
		return NewKafkaOutput(&cfg.Kafka)
	case "parquet":
		return NewParquetOutput(cfg)
	default:
		return nil, fmt.Errorf("unsupported output type: %s", cfg.Output.Type)
	}
}

// ConsoleOutput pretty-prints each message to stdout.
type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(pretty))
	return err
}

func (c *ConsoleOutput) Close() error { return nil }
