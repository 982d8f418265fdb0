package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/output"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

func TestFormatter_Emit(t *testing.T) {
	t.Parallel()
	type record struct {
		Name string `json:"name"`
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		f := output.NewFormatter(output.FormatJSON, &buf)
		require.NoError(t, f.Emit(record{Name: "Phantom"}, nil))

		var got record
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "Phantom", got.Name)
		assert.True(t, f.IsJSON())
	})

	t.Run("text renderer", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		f := output.NewFormatter(output.FormatText, &buf)
		err := f.Emit(record{Name: "Phantom"}, func(w io.Writer) error {
			_, err := io.WriteString(w, "wallet: Phantom\n")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, "wallet: Phantom\n", buf.String())
	})

	t.Run("text default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.NewFormatter(output.FormatText, &buf).Emit("devnet", nil))
		assert.Equal(t, "devnet\n", buf.String())
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    output.Format
		wantErr bool
	}{
		{"json", output.FormatJSON, false},
		{"JSON", output.FormatJSON, false},
		{" text ", output.FormatText, false},
		{"auto", output.FormatAuto, false},
		{"", output.FormatAuto, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := output.ParseFormat(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, walleterr.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.Equal(t, output.FormatJSON, output.DetectFormat(&buf, output.FormatAuto))
	assert.Equal(t, output.FormatJSON, output.DetectFormat(&buf, ""))
	assert.Equal(t, output.FormatText, output.DetectFormat(&buf, output.FormatText))
	assert.Equal(t, output.FormatJSON, output.NewFormatter(output.FormatAuto, &buf).Format())
}

func TestFormatError_Text(t *testing.T) {
	t.Parallel()

	t.Run("details and suggestion", func(t *testing.T) {
		t.Parallel()
		err := walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrWalletNotFound, map[string]string{"wallet": "Phantm", "cluster": "devnet"}),
			"did you mean Phantom?",
		)
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, err, output.FormatText))
		assert.Equal(t, "Error: wallet not found\n\nDetails:\n  cluster: devnet\n  wallet: Phantm\n\nSuggestion: did you mean Phantom?\n", buf.String())
	})

	t.Run("cause", func(t *testing.T) {
		t.Parallel()
		err := walleterr.WithCause(walleterr.ErrSendFailure, errors.New("rejected"))
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, err, output.FormatText))
		assert.Equal(t, "Error: wallet failed to send transaction\nCause: rejected\n", buf.String())
	})

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, errors.New("boom"), output.FormatText))
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, nil, output.FormatText))
		assert.Empty(t, buf.String())
	})
}

func TestFormatError_JSON(t *testing.T) {
	t.Parallel()
	err := walleterr.WithDetails(walleterr.ErrNotReady, map[string]string{"wallet": "Ledger"})

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var got output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "WALLET_NOT_READY", got.Error.Code)
	assert.Equal(t, walleterr.ExitWallet, got.Error.ExitCode)
	assert.Equal(t, map[string]string{"wallet": "Ledger"}, got.Error.Details)
}

func TestTable(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("NAME", "URL")
	tbl.AddRow("Phantom", "https://phantom.app")
	tbl.AddRow("Glow")

	want := "NAME     URL\n" +
		"-------  -------------------\n" +
		"Phantom  https://phantom.app\n" +
		"Glow\n"
	assert.Equal(t, want, tbl.String())
	assert.Empty(t, output.NewTable().String())
}

func TestRenderQR(t *testing.T) {
	t.Parallel()
	link := "https://phantom.app/ul/browse/https%3A%2F%2Fapp.example.com?ref=https%3A%2F%2Fapp.example.com"

	var buf bytes.Buffer
	output.RenderQR(&buf, link, output.DefaultQRConfig())
	assert.Empty(t, buf.String(), "non-terminal writers get nothing")

	cfg := output.DefaultQRConfig()
	cfg.Force = true
	output.RenderQR(&buf, link, cfg)
	assert.NotEmpty(t, buf.String())

	assert.False(t, output.CanRenderQR(&buf))
	assert.False(t, output.CanRenderQR(nil))
	assert.NotPanics(t, func() { output.RenderQR(nil, link, cfg) })
}
