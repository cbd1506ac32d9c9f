// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inkml

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk description of a batch of inline-content
// conversion jobs. It lets callers that hold stroke text in memory
// (notebooks, services) submit many conversions in one run.
type Manifest struct {
	Jobs []ManifestJob `yaml:"jobs"`
}

// ManifestJob is one inline conversion: the stroke text and the label
// folded into the output file name.
type ManifestJob struct {
	Label   string `yaml:"label"`
	Content string `yaml:"content"`
}

// LoadManifest reads and parses a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s contains no jobs", path)
	}
	for i, job := range m.Jobs {
		if job.Content == "" {
			return nil, fmt.Errorf("manifest %s: job %d has no content", path, i+1)
		}
	}

	return &m, nil
}

// ConvertManifest runs every job in m through ConvertString, printing
// per-job status to w. Failures are logged and skipped, matching
// directory batches. Returns the output paths of successful jobs in
// manifest order.
func (c *Converter) ConvertManifest(m *Manifest, w io.Writer) ([]string, BatchResult) {
	var outputs []string
	var result BatchResult

	for _, job := range m.Jobs {
		out, err := c.ConvertString(job.Content, job.Label)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", job.Label, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s\n", job.Label, out)
		outputs = append(outputs, out)
		result.Converted++
	}

	fmt.Fprintf(w, "\nManifest summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return outputs, result
}
