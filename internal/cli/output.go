package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/format"
)

func (o *rootOptions) json() bool { return strings.EqualFold(o.output, "json") }

// emit writes v as indented JSON or renders markdown for the terminal.
func emit(cmd *cobra.Command, opts *rootOptions, v any, markdown func() string) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(opts.output) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		rendered, err := format.Render(markdown(), opts.width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	default:
		return fmt.Errorf("unknown output format %q: must be text or json", opts.output)
	}
}

// done prints a short confirmation, or {"id": ...} in JSON mode.
func done(cmd *cobra.Command, opts *rootOptions, id, message string) error {
	if opts.json() {
		return emit(cmd, opts, map[string]string{"id": id, "status": "ok"}, nil)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), message)
	return err
}

// parseDateFlag reads YYYY-MM-DD; empty means today.
func parseDateFlag(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.DateOf(time.Now()), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, &core.ValidationError{Fields: []string{"date"}}
	}
	return d, nil
}
