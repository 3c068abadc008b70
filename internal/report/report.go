// Package report renders sweep results for humans and scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/sweep"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	Text Format = "text"
	YAML Format = "yaml"
	JSON Format = "json"
)

// Formats lists the accepted values, for flag help.
func Formats() []string {
	return []string{string(Text), string(YAML), string(JSON)}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, YAML, JSON:
		return f, nil
	case "":
		return Text, nil
	default:
		return "", errors.NewConfigError(fmt.Sprintf("unknown output format %q, want one of %s", s, strings.Join(Formats(), ", ")), "output", errors.InvalidConfig, nil)
	}
}

// Write renders result to w.
func Write(w io.Writer, result *sweep.Result, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "failed to encode yaml report")
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case Text, "":
		return writeText(w, result)
	default:
		return errors.Newf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, r *sweep.Result) error {
	mode := "live"
	if r.DryRun {
		mode = "dry-run"
	}

	fmt.Fprintf(w, "Sweep of %s (%s)\n\n", r.TargetDir, mode)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range r.Decisions {
		line := fmt.Sprintf("  %s\t%s\t%s", label(d.Disposition), d.Path, d.Reason)
		if d.Error != "" {
			line += "\t" + d.Error
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	deletedLabel := "Moved to trash"
	if r.DryRun {
		deletedLabel = "Would move"
	}

	fmt.Fprintf(w, "\nSeen: %d\n", r.Seen)
	fmt.Fprintf(w, "%s: %d (%s)\n", deletedLabel, r.Deleted, humanize.Bytes(uint64(r.BytesRelocated)))
	fmt.Fprintf(w, "Protected: %d\n", r.Protected)
	_, err := fmt.Fprintf(w, "Errors: %d\n", r.Errors)
	return err
}

func label(d sweep.Disposition) string {
	switch d {
	case sweep.Relocated:
		return "moved"
	case sweep.WouldRelocate:
		return "would move"
	case sweep.Protected:
		return "kept"
	default:
		return "error"
	}
}
