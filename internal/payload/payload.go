// Package payload checks client supplied section bodies against embedded JSON
// Schemas before decoding them into typed domain sections.
package payload

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"annexvii/pkg/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxBodyBytes caps a single section body.
const maxBodyBytes = 1 << 20

const schemaBase = "https://annexvii.schemas.local/"

//go:embed schemas/*.json
var schemaFS embed.FS

// Section names a schema-checked section body.
type Section string

// Known sections. The names match the JSON keys of a submission.
const (
	WasteDescription       Section = "wasteDescription"
	WasteQuantity          Section = "wasteQuantity"
	ExporterDetail         Section = "exporterDetail"
	ImporterDetail         Section = "importerDetail"
	CollectionDate         Section = "collectionDate"
	CollectionDetail       Section = "collectionDetail"
	UkExitLocation         Section = "ukExitLocation"
	TransitCountries       Section = "transitCountries"
	Carriers               Section = "carriers"
	RecoveryFacilityDetail Section = "recoveryFacilityDetail"
	SubmissionConfirmation Section = "submissionConfirmation"
)

// Decoder holds the compiled section schemas. It is safe for concurrent use.
type Decoder struct {
	schemas map[Section]*jsonschema.Schema
}

// NewDecoder compiles every embedded section schema.
func NewDecoder() (*Decoder, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	files, err := fs.Glob(schemaFS, "schemas/*.json")
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		raw, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(schemaBase+path.Base(name), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	d := &Decoder{schemas: make(map[Section]*jsonschema.Schema)}
	for _, name := range files {
		base := strings.TrimSuffix(path.Base(name), ".json")
		if base == "common" {
			continue
		}
		compiled, err := c.Compile(schemaBase + base + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", base, err)
		}
		d.schemas[Section(base)] = compiled
	}
	return d, nil
}

// MustNewDecoder is NewDecoder for package-level initialisation.
func MustNewDecoder() *Decoder {
	d, err := NewDecoder()
	if err != nil {
		panic(err)
	}
	return d
}

// Sections lists the sections the decoder knows, sorted by name.
func (d *Decoder) Sections() []Section {
	out := make([]Section, 0, len(d.schemas))
	for s := range d.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks raw against the schema of section. Failures are
// BadRequest errors naming the offending location.
func (d *Decoder) Validate(section Section, raw []byte) error {
	schema, ok := d.schemas[section]
	if !ok {
		return domain.BadRequestError("unknown section %q", section)
	}
	if len(raw) > maxBodyBytes {
		return domain.BadRequestError("%s body exceeds %d bytes", section, maxBodyBytes)
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return domain.BadRequestError("%s body is not valid JSON: %v", section, err)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.BadRequestError("invalid %s: %s", section, describe(err))
	}
	return nil
}

// decodeDocument decodes a single JSON value for schema validation. Numbers
// stay json.Number so large quantities are not rounded through float64.
func decodeDocument(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the JSON value")
	}
	return doc, nil
}

// Decode validates raw and decodes it into T.
func Decode[T any](d *Decoder, section Section, raw []byte) (T, error) {
	var out T
	if err := d.Validate(section, raw); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, domain.BadRequestError("invalid %s: %v", section, err)
	}
	return out, nil
}

// describe reduces a schema failure to its deepest cause, which is the
// message a caller can act on.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
