package manifest

import (
	"fmt"
	"strings"

	"bodymask/internal/util/jsonutil"
)

const (
	DefaultSamplesDir   = "assets/samples"
	DefaultManifestName = "manifest.json"
)

// Sample is one eligible image. File is the slash-joined path the web page
// loads the image from.
type Sample struct {
	Label string `json:"label"`
	File  string `json:"file"`
}

// Manifest is the document written to manifest.json.
type Manifest struct {
	Samples []Sample `json:"samples"`
}

// Build turns already sorted file names into a Manifest. prefix is joined to
// each name with "/" whatever the host separator is.
func Build(names []string, prefix string) Manifest {
	prefix = strings.TrimSuffix(prefix, "/")
	samples := make([]Sample, 0, len(names))
	for _, name := range names {
		samples = append(samples, Sample{
			Label: name,
			File:  prefix + "/" + name,
		})
	}
	return Manifest{Samples: samples}
}

// Encode serializes m with two-space indentation, UTF-8 text left unescaped,
// and a single trailing newline. A nil sample list encodes as [].
func Encode(m Manifest) ([]byte, error) {
	if m.Samples == nil {
		m.Samples = []Sample{}
	}
	b, err := jsonutil.MarshalNoEscapeIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses manifest bytes, rejecting unknown fields.
func Decode(raw []byte) (Manifest, error) {
	var m Manifest
	if err := jsonutil.UnmarshalStrict(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
