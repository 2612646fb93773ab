package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/axondata/go-hostinfo"
)

// unitReport tags a unit record with its kind so consumers can tell services
// from timers without inspecting fields.
type unitReport struct {
	Kind string            `json:"kind" yaml:"kind"`
	Unit hostinfo.UnitInfo `json:"unit" yaml:"unit"`
}

func newUnitReport(info hostinfo.UnitInfo) unitReport {
	return unitReport{Kind: info.Kind().String(), Unit: info}
}

// writeReport renders v in the configured format to stdout, or atomically
// replaces the --output file.
func writeReport(v any) error {
	data, err := render(current.cfg.OutputFormat, v)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := renameio.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputFile, err)
		}
		return nil
	}

	_, err = io.Copy(os.Stdout, bytes.NewReader(data))
	return err
}

func render(format string, v any) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	}
	return buf.Bytes(), nil
}
