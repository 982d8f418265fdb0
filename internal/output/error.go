package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// ErrorOutput is the JSON envelope for a failed command.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one error.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// Describe converts err into its printable form.
func Describe(err error) ErrorDetail {
	var we *walleterr.WalletError
	if !walleterr.As(err, &we) {
		return ErrorDetail{
			Code:     walleterr.Code(err),
			Message:  err.Error(),
			ExitCode: walleterr.ExitGeneral,
		}
	}
	d := ErrorDetail{
		Code:       we.Code,
		Message:    we.Message,
		Details:    we.Details,
		Suggestion: we.Suggestion,
		ExitCode:   we.ExitCode,
	}
	if we.Cause != nil {
		d.Cause = we.Cause.Error()
	}
	return d
}

// FormatError writes err to w.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}
	d := Describe(err)

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ErrorOutput{Error: d})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", d.Message)
	if d.Cause != "" {
		fmt.Fprintf(&sb, "Cause: %s\n", d.Cause)
	}
	if len(d.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, d.Details[k])
		}
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", d.Suggestion)
	}

	_, werr := io.WriteString(w, sb.String())
	return werr
}
